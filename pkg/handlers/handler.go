package handlers

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/oauth2"

	"melonworks-site/pkg/config"
	"melonworks-site/pkg/services"
)

// Handler serves the site pages and the JSON api.
type Handler struct {
	Content *services.Content
	Pages   *services.Pages
	Contact *services.Contact
	Gate    services.Gate
	Limiter *services.Limiter
	Site    *config.Site
	OAuth   *oauth2.Config // nil disables the portal login
	Log     *slog.Logger
	Now     func() time.Time
}

// RouterParams holds what the router needs besides the handler.
type RouterParams struct {
	Templates *template.Template
	Static    fs.FS
	Sessions  sessions.Store
	Registry  *prometheus.Registry // nil disables /metrics
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Router wires every route of the site.
func (h *Handler) Router(p RouterParams) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(p.Templates)

	r.Use(RequestID, AccessLog(h.Log), gin.Recovery())
	if p.Registry != nil {
		r.Use(newHTTPMetrics(p.Registry).middleware)
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{})))
	}
	r.Use(sessions.Sessions("melonworks", p.Sessions))

	if p.Static != nil {
		r.StaticFS("/static", http.FS(p.Static))
	}
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	r.GET("/", h.Home)
	for _, slug := range []string{"about", "privacy", "terms", "antisocial"} {
		r.GET("/"+slug, h.StaticPage(slug))
	}
	r.GET("/articles", h.Articles)
	r.GET("/article/:id", h.Article)
	r.GET("/search", h.Search)
	r.GET("/service", h.Services)
	r.GET("/service/:id", h.Service)

	r.GET("/contact", h.ContactForm)
	r.POST("/contact", RateLimit(h.Limiter), h.ContactSubmit)
	r.GET("/contact/policy", h.ContactPolicy)

	// --- Portal Routes ---
	r.GET("/login", h.LoginPage)
	r.GET("/login/oauth", h.OAuthLogin)
	r.GET("/auth/callback", h.AuthCallback)
	r.GET("/logout", h.Logout)
	r.GET("/base", AuthRequired, h.Base)

	api := r.Group("/api")
	{
		api.POST("/contact", RateLimit(h.Limiter), h.APIContact)
		api.GET("/articles", h.APIArticles)
		api.GET("/search", h.APISearch)
		api.GET("/tags", h.APITags)
	}

	r.NoRoute(h.NotFound)
	return r
}

// render adds the data every page layout needs.
func (h *Handler) render(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Services"] = h.Site.Services
	data["Company"] = h.Site.Company
	data["Path"] = c.Request.URL.Path
	data["Year"] = h.now().In(services.JST).Year()
	c.HTML(code, name, data)
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "404.html", gin.H{"Title": "ページが見つかりません"})
}
