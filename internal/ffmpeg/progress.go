package ffmpeg

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
)

// watchProgress consumes ffmpeg's machine-readable progress stream
// (-progress pipe:1) and renders an elapsed-output-time spinner. The total
// duration of the concatenated input is not probed up front, so the bar
// runs in indeterminate mode and counts transcoded seconds.
func watchProgress(r io.Reader) {
	bar := progressbar.NewOptions64(-1,
		progressbar.OptionSetDescription("Transcoding"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	defer bar.Finish()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		switch key {
		case "out_time_us":
			if us, err := strconv.ParseInt(value, 10, 64); err == nil && us > 0 {
				_ = bar.Set64(us / 1_000_000)
			}
		case "progress":
			if value == "end" {
				return
			}
		}
	}
}
