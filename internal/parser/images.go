package parser

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/dgallion1/openingest/internal/doctree"
)

// mediaDirs are the OOXML package directories that hold embedded media.
var mediaDirs = []string{"word/media/", "ppt/media/", "xl/media/"}

// ExtractImages pulls embedded media parts out of an OOXML package
// (docx, pptx, xlsx). Non-ZIP inputs yield no images and no error.
func ExtractImages(data []byte) ([]doctree.Image, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil
	}

	var images []doctree.Image
	for _, f := range zr.File {
		if !isMediaPart(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		payload, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		images = append(images, doctree.Image{
			Name: path.Base(f.Name),
			Data: payload,
		})
	}

	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })
	return images, nil
}

func isMediaPart(name string) bool {
	for _, dir := range mediaDirs {
		if strings.HasPrefix(name, dir) && name != dir {
			return true
		}
	}
	return false
}
