package handlers

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/k-krishaa/Books/internal/middleware"
	"github.com/k-krishaa/Books/internal/services"
)

// draftDescription fills form.Description with an AI blurb. Failures only
// produce a flash; the admin can still type a description by hand.
func (h *Handlers) draftDescription(c *gin.Context, form *services.ProductInput) {
	if h.Blurbs == nil {
		middleware.AddFlash(c, middleware.FlashWarning, "AI drafting is not configured.")
		return
	}
	title, author := strings.TrimSpace(form.Title), strings.TrimSpace(form.Author)
	if title == "" || author == "" {
		middleware.AddFlash(c, middleware.FlashWarning, "Enter a title and author before drafting a description.")
		return
	}

	blurb, err := h.Blurbs.DescribeBook(c.Request.Context(), title, author)
	if err != nil {
		log.Printf("WARNING: AI draft for %q failed: %v", title, err)
		middleware.AddFlash(c, middleware.FlashWarning, "The AI service is unavailable right now.")
		return
	}
	form.Description = blurb
	middleware.AddFlash(c, middleware.FlashInfo, "Draft description added. Review it before saving.")
}
