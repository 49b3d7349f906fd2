package content

import (
	"strconv"
	"strings"
)

const imageCDN = "https://cdn.sanity.io/images"

// Ref returns the referenced asset id.
func (i Image) Ref() string {
	return i.Asset.Ref
}

// ImageURL maps an asset reference such as "image-<id>-<W>x<H>-<fmt>" to its
// CDN URL. It never fails: a malformed reference yields a URL that may not
// resolve. An empty reference yields "".
func (c Config) ImageURL(ref string) string {
	return c.ImageURLWidth(ref, 0)
}

// ImageURLWidth is ImageURL with a width transform applied by the CDN.
func (c Config) ImageURLWidth(ref string, width int) string {
	if ref == "" {
		return ""
	}
	file := strings.TrimPrefix(ref, "image-")
	if i := strings.LastIndex(file, "-"); i > 0 {
		file = file[:i] + "." + file[i+1:]
	}
	u := imageCDN + "/" + c.ProjectID + "/" + c.Dataset + "/" + file
	if width > 0 {
		u += "?w=" + strconv.Itoa(width) + "&auto=format"
	}
	return u
}
