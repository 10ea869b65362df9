package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "pomodoro/tracker/internal/errors"
	"pomodoro/tracker/internal/service"
	"pomodoro/tracker/internal/theme"
)

// CatalogHandler serves tags, the shop and themes.
type CatalogHandler struct {
	pomodoroService *service.PomodoroService
}

type addTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type addShopItemRequest struct {
	Name        string `json:"name"`
	Cost        *int   `json:"cost"`
	Description string `json:"description"`
}

func NewCatalogHandler(pomodoroService *service.PomodoroService) *CatalogHandler {
	return &CatalogHandler{pomodoroService: pomodoroService}
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tags":       h.pomodoroService.Tags(),
		"currentTag": h.pomodoroService.Snapshot().CurrentTag,
	})
}

func (h *CatalogHandler) AddTag(c *gin.Context) {
	var req addTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	tag, state, err := h.pomodoroService.AddTag(c.Request.Context(), req.Name, req.Color)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tag": tag, "state": state})
}

func (h *CatalogHandler) SetCurrentTag(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	state, err := h.pomodoroService.SetCurrentTag(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

func (h *CatalogHandler) ListShopItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"items":  h.pomodoroService.ShopItems(),
		"points": h.pomodoroService.Snapshot().Points,
	})
}

func (h *CatalogHandler) AddShopItem(c *gin.Context) {
	var req addShopItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}
	if req.Cost == nil {
		writeError(c, apperrors.InvalidArgument("cost is required"))
		return
	}

	item, state, err := h.pomodoroService.AddShopItem(c.Request.Context(), req.Name, *req.Cost, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item, "state": state})
}

func (h *CatalogHandler) Purchase(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		writeError(c, apperrors.InvalidArgument("index must be an integer"))
		return
	}

	item, state, err := h.pomodoroService.Purchase(c.Request.Context(), index)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item, "state": state})
}

func (h *CatalogHandler) ListThemes(c *gin.Context) {
	names := theme.Names()
	palettes := make(map[string]theme.Palette, len(names))
	for _, name := range names {
		palettes[name], _ = theme.Lookup(name)
	}
	c.JSON(http.StatusOK, gin.H{
		"themes":   names,
		"palettes": palettes,
		"current":  h.pomodoroService.Snapshot().Theme,
	})
}

func (h *CatalogHandler) SetTheme(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	state, err := h.pomodoroService.SetTheme(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}
