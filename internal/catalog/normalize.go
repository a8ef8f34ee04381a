package catalog

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"biglibrary/internal/platform/googlebooks"
)

var textOnly = bluemonday.StrictPolicy()

// toHTTPS rewrites a leading http:// so images never trigger mixed content.
func toHTTPS(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

// plainText strips markup from API descriptions, which often carry <p>/<b>.
func plainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(textOnly.Sanitize(s)))
}

func fromVolume(v googlebooks.Volume) Item {
	info := v.VolumeInfo

	var image string
	if info.ImageLinks != nil {
		image = info.ImageLinks.Thumbnail
		if image == "" {
			image = info.ImageLinks.SmallThumbnail
		}
	}

	return Item{
		ID:             v.ID,
		Title:          info.Title,
		Authors:        info.Authors,
		Description:    plainText(info.Description),
		ImageURL:       toHTTPS(image),
		PreviewLink:    info.PreviewLink,
		PublishedDate:  info.PublishedDate,
		Publisher:      info.Publisher,
		Categories:     info.Categories,
		PageCount:      info.PageCount,
		Language:       info.Language,
		MaturityRating: info.MaturityRating,
		AverageRating:  info.AverageRating,
		RatingsCount:   info.RatingsCount,
	}
}
