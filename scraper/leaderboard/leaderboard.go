package leaderboard

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"leaderboard-scraper/config"
	"leaderboard-scraper/models"
	"leaderboard-scraper/utils"
)

const (
	// rowFields is the number of data columns a row must yield after
	// the explorer-link cell is dropped.
	rowFields = 5
	// explorerColumn is the cell index holding the explorer link — a
	// navigation element, not leaderboard data.
	explorerColumn = 5

	nextButton          = `//button[text()='>']`
	paginationIndicator = `//p[contains(text(), 'Page')]`

	// footerOffset is how far to scroll back up after scrolling the
	// next button into view, so the fixed footer cannot cover it.
	footerOffset = 200
)

// Scraper drives a headless browser through every page of the points
// leaderboard and collects the raw row data. Every failure past
// session acquisition is downgraded to a log line plus a partial or
// empty result; Scrape never returns an error.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// New creates a ready-to-use leaderboard Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Scrape opens the leaderboard page and walks its pagination, returning
// every row found across all pages in visitation order. The browser
// session is released on every exit path.
func (s *Scraper) Scrape() []models.RawRow {
	s.logger.Info("[leaderboard] Starting scrape — %s", s.cfg.LeaderboardURL)

	chromeBin := s.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	s.logger.Info("[leaderboard] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise. One tab is used for the whole run;
	// pagination happens in place, so navigation state must persist
	// across extractions.
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	err := s.retry.Do("open-leaderboard", func() error {
		navCtx, cancelNav := context.WithTimeout(ctx, s.cfg.NavigateTimeout)
		defer cancelNav()
		return chromedp.Run(navCtx, chromedp.Navigate(s.cfg.LeaderboardURL))
	})
	if err != nil {
		s.logger.Error("[leaderboard] Could not open leaderboard page: %v", err)
		return nil
	}

	s.logger.Info("[leaderboard] Getting initial table data")
	all := s.tableData(ctx)

	total, err := s.totalPages(ctx)
	if err != nil {
		s.logger.Error("[leaderboard] Pagination abandoned: %v", err)
		return all
	}
	s.logger.Info("[leaderboard] Pagination reports %d pages", total)

	all = s.collectPages(all, total, func(page int) ([]models.RawRow, error) {
		if err := s.nextPage(ctx); err != nil {
			return nil, err
		}
		return s.tableData(ctx), nil
	})

	s.logger.Info("[leaderboard] Scrape complete — total rows: %d", len(all))
	return all
}

// collectPages visits pages 2..total in ascending order, appending each
// page's rows to rows. The first failure terminates the walk — later
// pages are not attempted — and the rows gathered so far are kept.
func (s *Scraper) collectPages(rows []models.RawRow, total int, visit func(page int) ([]models.RawRow, error)) []models.RawRow {
	for page := 2; page <= total; page++ {
		pageRows, err := visit(page)
		if err != nil {
			s.logger.Error("[leaderboard] Error processing page %d: %v", page, err)
			return rows
		}
		rows = append(rows, pageRows...)
		s.logger.Info("[leaderboard] Page %d done — %d rows collected so far", page, len(rows))
	}
	return rows
}

// rowCellsJS returns every tbody row as an array of trimmed cell texts.
const rowCellsJS = `
	(function() {
		var rows = document.querySelectorAll('tbody > tr');
		var out = [];
		for (var i = 0; i < rows.length; i++) {
			var cells = rows[i].querySelectorAll('td');
			var texts = [];
			for (var j = 0; j < cells.length; j++) {
				texts.push(cells[j].innerText.trim());
			}
			out.push(texts);
		}
		return out;
	})()
`

// tableData extracts the rows currently visible in the table body.
// A wait timeout or missing table yields an empty result, never an
// error — the caller proceeds regardless.
func (s *Scraper) tableData(ctx context.Context) []models.RawRow {
	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.WaitTimeout)
	defer cancel()

	err := chromedp.Run(waitCtx,
		chromedp.WaitReady("tbody", chromedp.ByQuery),
		chromedp.WaitReady("td", chromedp.ByQuery),
	)
	if err != nil {
		s.logger.Error("[leaderboard] Timeout waiting for table to load: %v", err)
		return nil
	}

	s.waitForStableRows(ctx)

	var cells [][]string
	if err := chromedp.Run(ctx, chromedp.Evaluate(rowCellsJS, &cells)); err != nil {
		s.logger.Error("[leaderboard] Row extraction failed: %v", err)
		return nil
	}
	if len(cells) == 0 {
		s.logger.Error("[leaderboard] No rows found in table")
		return nil
	}

	rows := make([]models.RawRow, 0, len(cells))
	for i, rowCells := range cells {
		row, ok := buildRow(rowCells)
		if !ok {
			s.logger.Warn("[leaderboard] Row %d has incorrect number of columns: %d — skipping",
				i+1, len(rowCells))
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// buildRow maps one row's cell texts onto the five-column schema,
// dropping the explorer-link cell. A row that does not yield exactly
// five fields is rejected.
func buildRow(cells []string) (models.RawRow, bool) {
	fields := make([]string, 0, rowFields)
	for i, c := range cells {
		if i == explorerColumn {
			continue
		}
		fields = append(fields, strings.TrimSpace(c))
	}
	if len(fields) != rowFields {
		return models.RawRow{}, false
	}
	return models.RawRow{
		Rank:           fields[0],
		Points:         fields[1],
		Referrals:      fields[2],
		ReferralPoints: fields[3],
		Owner:          fields[4],
	}, true
}

// waitForStableRows polls the row count until it is non-zero and
// unchanged across two consecutive checks, bounded by SettleChecks.
// This replaces a blind post-presence sleep: the table is considered
// settled once its contents stop growing.
func (s *Scraper) waitForStableRows(ctx context.Context) {
	last := -1
	for i := 0; i < s.cfg.SettleChecks; i++ {
		var count int
		if err := chromedp.Run(ctx,
			chromedp.Evaluate(`document.querySelectorAll('tbody > tr').length`, &count)); err != nil {
			s.logger.Debug("[leaderboard] Settle poll failed: %v", err)
			return
		}
		if count > 0 && count == last {
			return
		}
		last = count
		if err := chromedp.Run(ctx, chromedp.Sleep(s.cfg.SettlePoll)); err != nil {
			return
		}
	}
	s.logger.Debug("[leaderboard] Row count never stabilized — proceeding with %d rows", last)
}

// totalPages reads the "Page X of Y" indicator and returns Y.
func (s *Scraper) totalPages(ctx context.Context) (int, error) {
	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.PaginationTimeout)
	defer cancel()

	var text string
	if err := chromedp.Run(waitCtx,
		chromedp.Text(paginationIndicator, &text, chromedp.BySearch)); err != nil {
		return 0, fmt.Errorf("pagination indicator not found: %w", err)
	}
	return parseTotalPages(text)
}

// parseTotalPages extracts the page total from indicator text of the
// form "Page <current> of <total>".
func parseTotalPages(text string) (int, error) {
	idx := strings.LastIndex(text, "of")
	if idx < 0 {
		return 0, fmt.Errorf("unexpected pagination text %q", text)
	}
	total, err := strconv.Atoi(strings.TrimSpace(text[idx+len("of"):]))
	if err != nil {
		return 0, fmt.Errorf("parse page total from %q: %w", text, err)
	}
	return total, nil
}

// nextPage advances the table one page: waits for the next button to
// become clickable, makes it reachable, clicks it, and gives the page
// time to render the new rows.
func (s *Scraper) nextPage(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.PaginationTimeout)
	defer cancel()

	err := chromedp.Run(waitCtx,
		chromedp.WaitVisible(nextButton, chromedp.BySearch),
		chromedp.WaitEnabled(nextButton, chromedp.BySearch),
	)
	if err != nil {
		return fmt.Errorf("next button not clickable: %w", err)
	}

	s.reachNextButton(ctx)

	// The SPA can replace the pagination subtree between the wait and
	// the click; bound the click too so a vanished button surfaces as
	// an error instead of stalling the walk.
	clickCtx, cancelClick := context.WithTimeout(ctx, s.cfg.PaginationTimeout)
	defer cancelClick()
	if err := chromedp.Run(clickCtx, chromedp.Click(nextButton, chromedp.BySearch)); err != nil {
		return fmt.Errorf("click next button: %w", err)
	}

	return chromedp.Run(ctx, chromedp.Sleep(s.cfg.PageLoadDelay))
}

const scrollIntoViewJS = `
	(function() {
		var btns = document.querySelectorAll('button');
		for (var i = 0; i < btns.length; i++) {
			if (btns[i].textContent.trim() === '>') {
				btns[i].scrollIntoView(true);
				return true;
			}
		}
		return false;
	})()
`

// suppressOverlaysJS hides every element whose computed position is
// fixed or sticky, so no overlay can intercept the click.
const suppressOverlaysJS = `
	(function() {
		var all = document.querySelectorAll('*');
		var hidden = 0;
		for (var i = 0; i < all.length; i++) {
			var style = window.getComputedStyle(all[i]);
			if (style.position === 'fixed' || style.position === 'sticky') {
				all[i].style.display = 'none';
				hidden++;
			}
		}
		return hidden;
	})()
`

// recenterJS re-measures the next button after the overlay pass and
// recenters the scroll on it if it is still outside the viewport.
const recenterJS = `
	(function() {
		var btns = document.querySelectorAll('button');
		for (var i = 0; i < btns.length; i++) {
			if (btns[i].textContent.trim() !== '>') continue;
			var rect = btns[i].getBoundingClientRect();
			if (rect.top < 0 || rect.bottom > window.innerHeight) {
				window.scrollTo(0, btns[i].offsetTop - window.innerHeight / 2);
			}
			return true;
		}
		return false;
	})()
`

// reachNextButton makes the next button reachable for a click: scroll
// it into view, back off so the footer cannot cover it, hide fixed and
// sticky overlays, then recenter if it is still off screen. Failures
// here are logged and swallowed — the click is attempted regardless.
// Each step pauses InteractionSettle so the scroll has landed before
// the next adjustment runs.
func (s *Scraper) reachNextButton(ctx context.Context) {
	steps := []struct {
		name string
		js   string
	}{
		{"scroll-into-view", scrollIntoViewJS},
		{"footer-offset", fmt.Sprintf(`window.scrollBy(0, -%d)`, footerOffset)},
		{"suppress-overlays", suppressOverlaysJS},
		{"recenter", recenterJS},
	}
	for _, step := range steps {
		err := chromedp.Run(ctx,
			chromedp.Evaluate(step.js, nil),
			chromedp.Sleep(s.cfg.InteractionSettle),
		)
		if err != nil {
			s.logger.Warn("[leaderboard] Scroll adjustment %q failed: %v", step.name, err)
		}
	}
}

// findChromeBinary locates a Chrome/Chromium binary on the host.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
