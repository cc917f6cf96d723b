package neonlog

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/neonlog/neonlog/controller"
	"github.com/neonlog/neonlog/manifest"
	"github.com/neonlog/neonlog/render"
	"github.com/neonlog/neonlog/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

func (a *App) handleHome(c echo.Context) error {
	f := manifest.Filter{
		Query: c.QueryParam("q"),
		Tag:   c.QueryParam("tag"),
	}
	if f.Tag == manifest.AllTag {
		f.Tag = ""
	}
	list := controller.BuildListView(a.Store.Manifest(), a.Store.TagIndex(), f)
	return Render(c, views.Home(a.site, list))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	m := a.Store.Manifest()
	post, ok := m.Lookup(slug)
	if !ok {
		return RenderStatus(c, http.StatusNotFound, views.NotFound(a.site))
	}
	view, err := a.Renderer.RenderPost(c.Request().Context(), post)
	if err != nil {
		if errors.Is(err, render.ErrContentUnavailable) {
			c.Logger().Errorf("post %s: %v", slug, err)
			return RenderStatus(c, http.StatusInternalServerError, views.PostError(a.site, slug))
		}
		return err
	}
	related := views.Related(post, m.Posts)
	return Render(c, views.PostPage(a.site, view, post, related))
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Store.Manifest().Posts)
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Store.Manifest().Posts)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.site))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.site))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
