package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/activity-scan/internal/scraper"
)

var testNow = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

// page renders a detail page in the portal's grid_data layout
func page(name, registerStart, registerEnd, meals string) []byte {
	return []byte(fmt.Sprintf(`<html><body>
<table class="grid_data">
  <tr><th>活動名稱</th><td>%s</td></tr>
  <tr><th>報名開始時間</th><td>%s</td><th>報名結束時間</th><td>%s</td></tr>
  <tr><th>是否提供餐點</th><td>%s</td></tr>
</table>
</body></html>`, name, registerStart, registerEnd, meals))
}

// eligiblePage opens registration on testNow
func eligiblePage(name string) []byte {
	return page(name, "2024/01/10 00:00", "2024/01/12 00:00", "是")
}

var noDataPage = []byte("<html><body>error-no active data</body></html>")

type fetchFunc func(ctx context.Context, id int) ([]byte, error)

func (f fetchFunc) Fetch(ctx context.Context, id int) ([]byte, error) {
	return f(ctx, id)
}

func testExtractor() Extractor {
	return scraper.NewExtractor(time.UTC)
}

func testConfig(start, end, workers int) Config {
	cfg := DefaultConfig()
	cfg.BaseURL = "http://portal.test/index.php"
	cfg.StartID = start
	cfg.EndID = end
	cfg.Workers = workers
	cfg.Timeout = time.Second
	cfg.ProgressEvery = 0
	return cfg
}
