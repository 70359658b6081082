package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"
)

// Item listings default to DefaultPageLimit rows and never return more than MaxPageLimit.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// Page is an offset/limit window over a listing.
type Page struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Validate checks the window bounds.
func (p Page) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Offset, validation.Min(0)),
		validation.Field(&p.Limit, validation.Required, validation.Min(1), validation.Max(MaxPageLimit)),
	)
}

// ParsePagination reads the offset and limit query parameters. Both values are zero when
// err is non-nil.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	page := Page{Limit: DefaultPageLimit}

	if raw, ok := c.GetQuery("offset"); ok {
		if page.Offset, err = strconv.Atoi(raw); err != nil {
			return 0, 0, fmt.Errorf("offset: must be an integer")
		}
	}
	if raw, ok := c.GetQuery("limit"); ok {
		if page.Limit, err = strconv.Atoi(raw); err != nil {
			return 0, 0, fmt.Errorf("limit: must be an integer")
		}
	}

	if err := page.Validate(); err != nil {
		return 0, 0, err
	}
	return page.Offset, page.Limit, nil
}
