// File: internal/audit/analyzers/images.go
// Description: Image accessibility and delivery checks. Findings are
// aggregated per problem, not per image, to keep reports readable on
// image-heavy pages.

package analyzers

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/seoscope/seoscope-cli/api/schemas"
	"github.com/seoscope/seoscope-cli/internal/audit"
	"github.com/seoscope/seoscope-cli/internal/parse"
)

const (
	// imageSizeCheckCap bounds how many images get a HEAD size probe.
	imageSizeCheckCap = 5
	// imageSizeThreshold is the content-length above which an image is
	// flagged as oversized.
	imageSizeThreshold = 200 * 1024
)

// Images audits the homepage's <img> elements.
type Images struct {
	logger *zap.Logger
}

// NewImages constructs the image analyzer.
func NewImages(logger *zap.Logger) *Images {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Images{logger: logger.Named("images")}
}

func (a *Images) Name() string               { return "images" }
func (a *Images) Category() schemas.Category { return schemas.CategoryImages }

// Analyze extracts every image and emits one aggregated finding per problem
// class. A page without images produces no findings at all.
func (a *Images) Analyze(ctx context.Context, ac *audit.Context) ([]schemas.Finding, error) {
	html, _, err := ac.EnsureHomepage(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := parse.NewDocument(html)
	if err != nil {
		return nil, fmt.Errorf("parsing homepage HTML: %w", err)
	}

	images := doc.Images()
	if len(images) == 0 {
		return nil, nil
	}
	pageURL := ac.FinalURL()

	var findings []schemas.Finding

	if srcs := collectSrcs(images, func(i parse.Image) bool { return !i.HasAlt() }); len(srcs) > 0 {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeImgMissingAlt,
			schemas.SeverityWarning,
			schemas.CategoryImages,
			fmt.Sprintf("%d image(s) missing alt attribute", len(srcs)),
			"Screen readers announce nothing useful for these images, and search engines cannot index them for image search.",
			`Add descriptive alt text, or alt="" for purely decorative images.`,
		).WithDetails(map[string]any{"count": len(srcs), "images": srcs}).WithURL(pageURL))
	}

	if srcs := collectSrcs(images, parse.Image.HasEmptyAlt); len(srcs) > 0 {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeImgEmptyAlt,
			schemas.SeverityInfo,
			schemas.CategoryImages,
			fmt.Sprintf("%d image(s) with empty alt attribute", len(srcs)),
			`alt="" marks an image decorative. Correct for decoration, a lost opportunity for content images.`,
			"Confirm each of these images is decorative; describe the ones that are not.",
		).WithDetails(map[string]any{"count": len(srcs), "images": srcs}).WithURL(pageURL))
	}

	if headersIndicatePlatform(ac, ctx) {
		if srcs := collectSrcs(images, func(i parse.Image) bool { return !i.IsNextImage }); len(srcs) > 0 {
			findings = append(findings, schemas.NewFinding(
				schemas.CodeImgNotOptimized,
				schemas.SeverityInfo,
				schemas.CategoryImages,
				fmt.Sprintf("%d image(s) bypass the platform image optimizer", len(srcs)),
				"Plain <img> tags on this platform skip automatic resizing, modern formats, and lazy loading that the image component provides.",
				"Serve these through the framework's image component.",
			).WithDetails(map[string]any{"count": len(srcs), "images": srcs}).WithURL(pageURL))
		}
	}

	var notLazy []string
	for idx, img := range images {
		if idx == 0 {
			// The first image is typically above the fold; eager loading
			// there is correct.
			continue
		}
		if img.Loading != "lazy" && !img.IsNextImage {
			notLazy = append(notLazy, img.Src)
		}
	}
	if len(notLazy) > 0 {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeImgNoLazyLoading,
			schemas.SeverityInfo,
			schemas.CategoryImages,
			fmt.Sprintf("%d below-the-fold image(s) without lazy loading", len(notLazy)),
			"Images after the first load eagerly, competing with critical resources during initial render.",
			`Add loading="lazy" to images below the fold.`,
		).WithDetails(map[string]any{"count": len(notLazy), "images": notLazy}).WithURL(pageURL))
	}

	findings = append(findings, a.checkSizes(ctx, ac, images, pageURL)...)

	if srcs := collectSrcs(images, func(i parse.Image) bool { return !i.HasWidth || !i.HasHeight }); len(srcs) > 0 {
		findings = append(findings, schemas.NewFinding(
			schemas.CodeImgMissingDimensions,
			schemas.SeverityWarning,
			schemas.CategoryImages,
			fmt.Sprintf("%d image(s) missing explicit width or height", len(srcs)),
			"Without reserved dimensions the layout shifts as each image loads, hurting Cumulative Layout Shift.",
			"Declare width and height attributes matching the rendered aspect ratio.",
		).WithDetails(map[string]any{"count": len(srcs), "images": srcs}).WithURL(pageURL))
	}

	return findings, nil
}

// checkSizes issues HEAD requests for up to imageSizeCheckCap absolute-URL
// images and flags any whose reported content-length crosses the threshold.
// Probe failures are skipped silently.
func (a *Images) checkSizes(ctx context.Context, ac *audit.Context, images []parse.Image, pageURL string) []schemas.Finding {
	type oversized struct {
		Src   string `json:"src"`
		Bytes int64  `json:"bytes"`
	}
	var heavy []oversized

	probed := 0
	for _, img := range images {
		if probed == imageSizeCheckCap {
			break
		}
		if !isAbsoluteURL(img.Src) {
			continue
		}
		probed++

		probe, err := ac.Fetch.FetchHead(ctx, img.Src)
		if err != nil || probe.Status >= 400 {
			a.logger.Debug("image size probe failed", zap.String("src", img.Src), zap.Error(err))
			continue
		}
		size, err := strconv.ParseInt(probe.Headers["content-length"], 10, 64)
		if err != nil {
			continue
		}
		if size > imageSizeThreshold {
			heavy = append(heavy, oversized{Src: img.Src, Bytes: size})
		}
	}

	if len(heavy) == 0 {
		return nil
	}
	return []schemas.Finding{schemas.NewFinding(
		schemas.CodeImgTooLarge,
		schemas.SeverityWarning,
		schemas.CategoryImages,
		fmt.Sprintf("%d image(s) larger than %dKB", len(heavy), imageSizeThreshold/1024),
		"Heavy images dominate page weight and slow Largest Contentful Paint, especially on mobile connections.",
		"Compress these images and serve modern formats like WebP or AVIF.",
	).WithDetails(map[string]any{"count": len(heavy), "images": heavy}).WithURL(pageURL)}
}

// headersIndicatePlatform reports whether the response headers carry the
// platform fingerprint the nextjs analyzer looks for. Falls back to a HEAD
// probe when no headers are cached; probe failure means "not detected".
func headersIndicatePlatform(ac *audit.Context, ctx context.Context) bool {
	headers, ok := ac.Headers()
	if !ok {
		probe, err := ac.Fetch.FetchHead(ctx, ac.NormalizedURL)
		if err != nil {
			return false
		}
		headers = probe.Headers
	}
	return matchesPlatformHeaders(headers)
}

func collectSrcs(images []parse.Image, match func(parse.Image) bool) []string {
	var srcs []string
	for _, img := range images {
		if match(img) {
			srcs = append(srcs, img.Src)
		}
	}
	return srcs
}
