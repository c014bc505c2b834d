package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"stockview/utils"
)

// extractImagesJS collects candidate vehicle photo URLs from a rendered
// auction page snapshot, largest first.
const extractImagesJS = `
	(function() {
		var out = [];
		document.querySelectorAll('img').forEach(function(img) {
			var src = img.currentSrc || img.src || img.getAttribute('data-src') || '';
			if (!src) return;
			var area = (img.naturalWidth || 0) * (img.naturalHeight || 0);
			out.push({src: src, area: area});
		});
		document.querySelectorAll('[data-full-image], [data-zoom-image]').forEach(function(el) {
			var src = el.getAttribute('data-full-image') || el.getAttribute('data-zoom-image');
			if (src) out.push({src: src, area: 1e9});
		});
		out.sort(function(a, b) { return b.area - a.area; });
		return out.map(function(o) { return o.src; });
	})()
`

// SnapshotExtractor renders a raw page snapshot in headless Chrome and pulls
// the photo URLs out of it. It is used when a record's only image source is
// the snapshot itself.
type SnapshotExtractor struct {
	timeout   time.Duration
	minImages int
	logger    *utils.Logger
}

// NewSnapshotExtractor creates a new SnapshotExtractor
func NewSnapshotExtractor(timeout time.Duration, logger *utils.Logger) *SnapshotExtractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SnapshotExtractor{timeout: timeout, minImages: 1, logger: logger}
}

// newContext creates a fresh chromedp context (one browser, one tab)
func (s *SnapshotExtractor) newContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("log-level", "3"), // suppress Chrome logs
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}
	return ctx, cancel
}

// Images loads snapshotURL and returns the absolute, de-duplicated image
// URLs found on it.
func (s *SnapshotExtractor) Images(ctx context.Context, snapshotURL string) ([]string, error) {
	base, err := url.Parse(strings.TrimSpace(snapshotURL))
	if err != nil || base.Scheme == "" {
		return nil, fmt.Errorf("invalid snapshot URL %q", snapshotURL)
	}

	ctx, cancel := s.newContext(ctx)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, s.timeout)
	defer cancelTimeout()

	s.logger.Debug("Rendering snapshot %s", snapshotURL)

	var raw []string
	err = chromedp.Run(ctx,
		chromedp.Navigate(base.String()),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second), // give lazy images time to resolve
		chromedp.Evaluate(extractImagesJS, &raw),
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot render failed: %w", err)
	}

	images := NormalizeImageURLs(base, raw)
	s.logger.Info("Snapshot %s: %d images", snapshotURL, len(images))
	if len(images) < s.minImages {
		return nil, fmt.Errorf("no images found on snapshot %s", snapshotURL)
	}
	return images, nil
}

// NormalizeImageURLs resolves each candidate against base, keeps http(s)
// URLs only, drops data URIs and obvious icons, and removes duplicates
// while keeping first-seen order.
func NormalizeImageURLs(base *url.URL, candidates []string) []string {
	seen := utils.Seen[string]{}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" || strings.HasPrefix(c, "data:") {
			continue
		}
		u, err := url.Parse(c)
		if err != nil {
			continue
		}
		if base != nil {
			u = base.ResolveReference(u)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			continue
		}
		lower := strings.ToLower(u.Path)
		if strings.HasSuffix(lower, ".svg") || strings.HasSuffix(lower, ".ico") || strings.Contains(lower, "logo") {
			continue
		}
		abs := u.String()
		if !seen.Add(abs) {
			continue
		}
		out = append(out, abs)
	}
	return out
}
