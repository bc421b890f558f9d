package parser

import "testing"

func TestExtractImages_OOXMLMedia(t *testing.T) {
	data := zipFixture(t, map[string]string{
		"word/document.xml":     `<document/>`,
		"word/media/image2.png": "png-bytes-2",
		"word/media/image1.png": "png-bytes-1",
		"word/styles.xml":       `<styles/>`,
	})

	images, err := ExtractImages(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
	// Sorted by name.
	if images[0].Name != "image1.png" || images[1].Name != "image2.png" {
		t.Errorf("expected sorted names, got %q, %q", images[0].Name, images[1].Name)
	}
	if string(images[0].Data) != "png-bytes-1" {
		t.Errorf("unexpected payload: %q", images[0].Data)
	}
}

func TestExtractImages_NonZipInput(t *testing.T) {
	images, err := ExtractImages([]byte("# just markdown\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if images != nil {
		t.Errorf("expected no images for non-zip input, got %d", len(images))
	}
}

func TestIsSupportedExtension(t *testing.T) {
	supported := []string{"a.pdf", "b.DOCX", "c.pptx", "d.xlsx", "e.html", "f.htm", "g.md", "h.markdown", "i.csv"}
	for _, name := range supported {
		if !IsSupportedExtension(name) {
			t.Errorf("expected %q to be supported", name)
		}
	}
	unsupported := []string{"a.exe", "b.txt", "c.pdf.gz", "noext", "d.doc"}
	for _, name := range unsupported {
		if IsSupportedExtension(name) {
			t.Errorf("expected %q to be unsupported", name)
		}
	}
}

func TestForFile_UnknownExtension(t *testing.T) {
	if _, err := ForFile("virus.exe", Options{}); err == nil {
		t.Error("expected error for unknown extension")
	}
}
