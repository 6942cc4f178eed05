package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"melonworks-site/pkg/services"
)

// Home renders the top page.
func (h *Handler) Home(c *gin.Context) {
	v := h.Content.Home(c.Request.Context())
	h.render(c, http.StatusOK, "index.html", gin.H{"Home": v})
}

// StaticPage renders one of the markdown pages.
func (h *Handler) StaticPage(slug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := h.Pages.Page(slug)
		if err != nil {
			h.pageError(c, err)
			return
		}
		h.render(c, http.StatusOK, "page.html", gin.H{"Title": page.Title, "Page": page})
	}
}

// Articles renders the article list.
func (h *Handler) Articles(c *gin.Context) {
	cards := h.Content.ArticleList(c.Request.Context())
	h.render(c, http.StatusOK, "articles.html", gin.H{"Title": "記事一覧", "Articles": cards})
}

// Article renders a single article.
func (h *Handler) Article(c *gin.Context) {
	v, err := h.Content.Article(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.pageError(c, err)
		return
	}
	h.render(c, http.StatusOK, "article.html", gin.H{"Title": v.Title, "Article": v})
}

// Search renders search results for a tag or a category.
func (h *Handler) Search(c *gin.Context) {
	var q services.SearchQuery
	_ = c.ShouldBindQuery(&q)
	v := h.Content.Search(c.Request.Context(), q)
	h.render(c, http.StatusOK, "search.html", gin.H{"Title": v.Title, "Search": v})
}

// Services renders the service overview.
func (h *Handler) Services(c *gin.Context) {
	h.render(c, http.StatusOK, "services.html", gin.H{"Title": "サービス", "List": h.Content.Services()})
}

// Service renders one service page.
func (h *Handler) Service(c *gin.Context) {
	v, err := h.Content.Service(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.pageError(c, err)
		return
	}
	h.render(c, http.StatusOK, "service.html", gin.H{"Title": v.Service.Title, "Service": v})
}

func (h *Handler) pageError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		h.NotFound(c)
		return
	}
	h.Log.ErrorContext(c.Request.Context(), "failed to render page", slog.Any("err", err))
	h.render(c, http.StatusInternalServerError, "error.html", gin.H{"Title": "エラー"})
}
