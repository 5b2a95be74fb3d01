package cards

import (
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"io"
	"os"
	"sync"

	"github.com/corona10/goimagehash"
	"github.com/masterdex/card-search-go/internal/storage"
	"github.com/masterdex/card-search-go/internal/web"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type ImageResult struct {
	File     io.ReadCloser
	MimeType web.MimeType
}

type ImageDownloader interface {
	GetImage(ctx context.Context, url string) (*ImageResult, error)
}

// ImageReport sums up one bulk download run. Duplicates counts stored
// images whose perceptual hash matches an image seen earlier in the same
// run.
type ImageReport struct {
	Total      int
	Downloaded int
	Skipped    int
	Missing    int
	Duplicates int
	Errors     int
}

type DownloadOptions struct {
	Concurrent int
	VerifyOnly bool
}

func (o DownloadOptions) ConcurrentOrDefault() int {
	if o.Concurrent <= 0 {
		return 5
	}

	return o.Concurrent
}

func NewImageImporter(storer storage.Storer, downloader ImageDownloader) *ImageImporter {
	return &ImageImporter{
		storer:     storer,
		downloader: downloader,
	}
}

// ImageImporter downloads the image of every masterlist card into local
// storage. Already stored images are skipped, so an aborted run can simply
// be restarted.
type ImageImporter struct {
	storer     storage.Storer
	downloader ImageDownloader
}

func (i *ImageImporter) Import(ctx context.Context, list []Card, opts DownloadOptions) (ImageReport, error) {
	report := ImageReport{Total: len(list)}

	var mu sync.Mutex
	seen := make(map[[4]uint64]string)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.ConcurrentOrDefault())

	for _, c := range list {
		c := c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res, err := i.importCard(ctx, c, opts, seen, &mu)
			if err != nil {
				return err
			}

			mu.Lock()
			switch res {
			case outcomeDownloaded:
				report.Downloaded++
			case outcomeSkipped:
				report.Skipped++
			case outcomeMissing:
				report.Missing++
			case outcomeDuplicate:
				report.Downloaded++
				report.Duplicates++
			case outcomeError:
				report.Errors++
			}
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("image import aborted due to %w", err)
	}

	return report, nil
}

type outcome int

const (
	outcomeDownloaded outcome = iota
	outcomeSkipped
	outcomeMissing
	outcomeDuplicate
	outcomeError
)

func (i *ImageImporter) importCard(ctx context.Context, c Card, opts DownloadOptions,
	seen map[[4]uint64]string, mu *sync.Mutex) (outcome, error) {
	imgURL := c.Images.Best()
	if imgURL == "" {
		log.Warn().Str("cardID", c.ID).Msg("card has no image url")

		return outcomeMissing, nil
	}

	fileName := c.SafeFilename() + ".jpg"

	// a zero-byte file is a leftover of an aborted download and counts as
	// absent
	if size, err := i.storer.Size(fileName); err == nil && size > 0 {
		return outcomeSkipped, nil
	}

	if opts.VerifyOnly {
		return outcomeMissing, nil
	}

	result, err := i.downloader.GetImage(ctx, imgURL)
	if err != nil {
		if errors.Is(err, ErrImageNotFound) {
			log.Warn().Str("cardID", c.ID).Str("url", imgURL).Msg("card image not found")

			return outcomeMissing, nil
		}
		if ctx.Err() != nil {
			return outcomeError, ctx.Err()
		}

		log.Error().Err(err).Str("cardID", c.ID).Str("url", imgURL).Msg("image download failed")

		return outcomeError, nil
	}
	defer result.File.Close()

	if result.MimeType.Raw() != "" && !result.MimeType.IsJpeg() {
		var fErr error
		fileName, fErr = result.MimeType.BuildFilename(c.SafeFilename())
		if fErr != nil {
			log.Error().Err(fErr).Str("cardID", c.ID).Msg("unsupported image type")

			return outcomeError, nil
		}
	}

	storedFile, err := i.storer.Store(result.File, fileName)
	if err != nil {
		log.Error().Err(err).Str("cardID", c.ID).Msg("failed to store image")

		return outcomeError, nil
	}

	if dup := i.isDuplicate(storedFile.AbsolutePath, c.ID, seen, mu); dup {
		return outcomeDuplicate, nil
	}

	return outcomeDownloaded, nil
}

// isDuplicate compares the perceptual hash of the stored image against all
// images of this run. Bodies that do not decode as JPEG are kept but not
// hashed.
func (i *ImageImporter) isDuplicate(path, cardID string, seen map[[4]uint64]string, mu *sync.Mutex) bool {
	f, err := os.Open(path)
	if err != nil {
		log.Debug().Err(err).Str("file", path).Msg("skipping phash, can't open file")

		return false
	}
	defer f.Close()

	img, err := jpeg.Decode(f)
	if err != nil {
		log.Debug().Err(err).Str("file", path).Msg("skipping phash, not a decodable jpeg")

		return false
	}

	imgWidth := 16
	imgHeight := imgWidth
	imgPHash, err := goimagehash.ExtPerceptionHash(img, imgWidth, imgHeight)
	if err != nil {
		log.Debug().Err(err).Str("file", path).Msg("skipping phash, hashing failed")

		return false
	}

	var key [4]uint64
	copy(key[:], imgPHash.GetHash())

	mu.Lock()
	defer mu.Unlock()

	if firstID, ok := seen[key]; ok {
		log.Info().Str("cardID", cardID).Str("duplicateOf", firstID).Msg("duplicate card image")

		return true
	}
	seen[key] = cardID

	return false
}
