package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"melonworks-site/pkg/models"
	"melonworks-site/pkg/services"
	"melonworks-site/pkg/taxonomy"
)

// APIContact accepts a JSON submission. A filled honeypot gets the same
// answer as a delivered message.
func (h *Handler) APIContact(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid JSON"})
		return
	}

	if _, err := h.Contact.Submit(c.Request.Context(), req); err != nil {
		var verrs services.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msgInvalid, "errors": verrs})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "送信に失敗しました"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// APIArticles lists articles, newest first.
func (h *Handler) APIArticles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"articles": h.Content.ArticleList(c.Request.Context())})
}

// APISearch searches articles by tag or category.
func (h *Handler) APISearch(c *gin.Context) {
	var q services.SearchQuery
	_ = c.ShouldBindQuery(&q)
	c.JSON(http.StatusOK, h.Content.Search(c.Request.Context(), q))
}

// APITags lists tag names, optionally by type and related service.
func (h *Handler) APITags(c *gin.Context) {
	f := taxonomy.Filter{Type: c.Query("type"), ServiceID: c.Query("service")}
	c.JSON(http.StatusOK, gin.H{"tags": h.Content.Tags(c.Request.Context(), f)})
}
