package pubfront

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pubfront/commentform"
	"github.com/eringen/pubfront/content"
	"github.com/eringen/pubfront/views"
)

const commentSessionName = "comment_session"

type commentResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// handleCreateComment persists a comment posted as JSON. The body is passed
// through as-is; required-field checks belong to the form.
func (a *App) handleCreateComment(c echo.Context) error {
	var in content.NewComment
	if err := json.NewDecoder(c.Request().Body).Decode(&in); err != nil {
		return c.JSON(http.StatusBadRequest, commentResponse{Message: "Invalid request body"})
	}
	id, err := a.Content.CreateComment(c.Request().Context(), in)
	if err != nil {
		c.Logger().Errorf("create comment for post %s: %v", in.PostID, err)
		return c.JSON(http.StatusInternalServerError, commentResponse{
			Message: "Couldn't submit comment",
			Error:   a.errorDetail(err),
		})
	}
	c.Logger().Infof("comment %s submitted for post %s", id, in.PostID)
	return c.JSON(http.StatusOK, commentResponse{Message: "Comment submitted"})
}

// handleCommentSection renders one visitor's comment section for a post:
// the thank-you note once they have submitted, the empty form otherwise.
func (a *App) handleCommentSection(c echo.Context) error {
	page, err := a.commentTarget(c)
	if err != nil {
		return err
	}
	form := commentform.New(page.PostID)
	if hasSubmitted(c, page.PostID) {
		form.State = commentform.Submitted
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	return a.renderCommentSection(c, http.StatusOK, page, form)
}

// handleCommentSubmit validates the posted form and forwards complete
// submissions to the content store.
func (a *App) handleCommentSubmit(c echo.Context) error {
	page, err := a.commentTarget(c)
	if err != nil {
		return err
	}
	form := commentform.New(page.PostID)
	if hasSubmitted(c, page.PostID) {
		form.State = commentform.Submitted
	}

	var values commentform.Fields
	if err := c.Bind(&values); err != nil {
		return err
	}

	status := http.StatusOK
	err = form.Submit(c.Request().Context(), values, func(ctx context.Context, f commentform.Fields) error {
		_, err := a.Content.CreateComment(ctx, content.NewComment{
			PostID:  f.PostID,
			Name:    f.Name,
			Email:   f.Email,
			Comment: f.Comment,
		})
		return err
	})
	switch {
	case err == nil:
		c.Logger().Infof("comment submitted for post %s", values.PostID)
		if serr := markSubmitted(c, page.PostID); serr != nil {
			c.Logger().Errorf("save comment session: %v", serr)
		}
	case errors.Is(err, commentform.ErrSubmitted):
	case errors.Is(err, commentform.ErrInvalid):
		status = http.StatusUnprocessableEntity
	default:
		c.Logger().Errorf("create comment for post %s: %v", values.PostID, err)
		status = http.StatusBadGateway
	}

	// htmx only swaps 2xx responses.
	if isHTMX(c) {
		status = http.StatusOK
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	return a.renderCommentSection(c, status, page, form)
}

// commentTarget resolves the post a comment route refers to through the
// page cache, so it costs no extra content store read once generated.
func (a *App) commentTarget(c echo.Context) (Page, error) {
	slug := c.Param("slug")
	if !a.Pages.Has(slug) && !a.fallbackLimiter.Allow(c.RealIP()) {
		return Page{}, echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests. Try again later.")
	}
	page, err := a.Pages.Get(c.Request().Context(), slug)
	if err != nil {
		return Page{}, err
	}
	if page.Status == http.StatusNotFound {
		return Page{}, echo.ErrNotFound
	}
	return page, nil
}

func (a *App) renderCommentSection(c echo.Context, status int, page Page, form *commentform.Form) error {
	sec := views.CommentSection{
		Slug:      page.Slug,
		Form:      form,
		CSRFToken: CsrfToken(c),
	}
	if isHTMX(c) {
		return RenderStatus(c, status, views.CommentSectionView(sec))
	}
	meta := views.PageMeta{
		Title: "Comment on " + page.Title,
		URL:   BuildURL(a.Config.URL, "post", page.Slug, "comment"),
	}
	return RenderStatus(c, status, views.CommentPage(a.site(), meta, sec))
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

func submittedKey(postID string) string {
	return "submitted:" + postID
}

// hasSubmitted reports whether this visitor already submitted a comment on
// the post during the current session.
func hasSubmitted(c echo.Context, postID string) bool {
	sess, err := session.Get(commentSessionName, c)
	if err != nil {
		return false
	}
	done, ok := sess.Values[submittedKey(postID)].(bool)
	return ok && done
}

func markSubmitted(c echo.Context, postID string) error {
	sess, err := session.Get(commentSessionName, c)
	if err != nil {
		return err
	}
	sess.Values[submittedKey(postID)] = true
	return sess.Save(c.Request(), c.Response())
}
