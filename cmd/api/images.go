package main

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"habitat/internal/images"
)

// maxFormBytes bounds the whole multipart body, images included.
const maxFormBytes = 15 * 1024 * 1024

func checkImageFiles(files []*multipart.FileHeader) error {
	if len(files) > images.MaxImages {
		return fmt.Errorf("maximum %d images allowed", images.MaxImages)
	}
	for _, fh := range files {
		if !images.Allowed(fh.Filename) {
			return fmt.Errorf("%s: %w", fh.Filename, images.ErrUnsupportedFormat)
		}
	}
	return nil
}

// uploadImages uploads files in order. On failure, images uploaded so far are
// destroyed before the error is returned.
func (app *application) uploadImages(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			app.destroyImages(urls)
			return nil, fmt.Errorf("open file: %w", err)
		}

		url, err := app.images.Upload(ctx, file, fileHeader.Filename)
		file.Close()
		if err != nil {
			app.destroyImages(urls)
			return nil, err
		}

		urls = append(urls, url)
	}
	return urls, nil
}

// destroyImages removes uploaded images, best effort.
func (app *application) destroyImages(urls []string) {
	if len(urls) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, u := range urls {
		if err := app.images.Destroy(ctx, u); err != nil {
			app.logger.Warnw("failed to delete orphaned image", "url", u, "error", err)
		}
	}
}
