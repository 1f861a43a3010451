package ffmpeg

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/backmassage/clipstitch/internal/catalog"
)

func TestWriteConcatList(t *testing.T) {
	dir := t.TempDir()
	clips := []catalog.Clip{
		{Path: "/media/MOVI003.avi"},
		{Path: "/media/MOVI004.avi"},
		{Path: "/media/it's shaky/MOVI005.avi"},
	}
	list := filepath.Join(dir, "concat.txt")
	if err := WriteConcatList(list, clips); err != nil {
		t.Fatalf("WriteConcatList() error = %v", err)
	}

	data, err := os.ReadFile(list)
	if err != nil {
		t.Fatal(err)
	}
	want := "file '/media/MOVI003.avi'\n" +
		"file '/media/MOVI004.avi'\n" +
		`file '/media/it'\''s shaky/MOVI005.avi'` + "\n"
	if string(data) != want {
		t.Errorf("manifest = %q, want %q", data, want)
	}
}

func TestWriteConcatList_OrderPreserving(t *testing.T) {
	dir := t.TempDir()
	var clips []catalog.Clip
	for _, n := range []string{"007", "003", "005"} {
		clips = append(clips, catalog.Clip{Path: "/in/MOVI" + n + ".avi"})
	}
	list := filepath.Join(dir, "concat.txt")
	if err := WriteConcatList(list, clips); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(list)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	// One line per clip, in the order given — never re-sorted here.
	for i, n := range []string{"007", "003", "005"} {
		if !strings.Contains(lines[i], "MOVI"+n) {
			t.Errorf("line %d = %q, want clip %s", i, lines[i], n)
		}
	}
}

func TestBuildArgs(t *testing.T) {
	req := &Request{
		ConcatList:   "/out/concat.txt",
		VideoFilters: "deflicker=mode=pm:size=10,scale=in_range=full:out_range=limited,format=yuv420p",
		AudioFilters: "aresample=async=1000,highpass=f=120",
		FPS:          30,
		VideoArgs:    []string{"-c:v", "libx264", "-crf", "19", "-preset", "slow", "-pix_fmt", "yuv420p"},
		AudioArgs:    []string{"-c:a", "aac", "-b:a", "192k", "-ar", "48000"},
		OutputPath:   "/out/MOVI_003-007.mp4",
	}
	args := BuildArgs(req)

	if args[0] != "ffmpeg" {
		t.Fatalf("args[0] = %q", args[0])
	}
	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-hide_banner -nostdin -y",
		"-f concat -safe 0 -i /out/concat.txt",
		"-vf " + req.VideoFilters,
		"-af " + req.AudioFilters,
		"-r 30",
		"-c:v libx264",
		"-movflags +faststart",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q in %q", want, joined)
		}
	}
	if args[len(args)-1] != req.OutputPath {
		t.Errorf("last arg = %q, want output path", args[len(args)-1])
	}

	// The input must precede the filters, which precede the codec args.
	iIdx := indexOf(args, "-i")
	vfIdx := indexOf(args, "-vf")
	cvIdx := indexOf(args, "-c:v")
	if !(iIdx < vfIdx && vfIdx < cvIdx) {
		t.Errorf("argument order wrong: -i@%d -vf@%d -c:v@%d", iIdx, vfIdx, cvIdx)
	}
}

func TestBuildArgs_OmitsEmptyChains(t *testing.T) {
	req := &Request{
		ConcatList: "/out/concat.txt",
		FPS:        29.97,
		VideoArgs:  []string{"-c:v", "mjpeg"},
		OutputPath: "/out/MOVI_003-007.avi",
	}
	args := BuildArgs(req)
	if indexOf(args, "-vf") != -1 || indexOf(args, "-af") != -1 {
		t.Errorf("empty chains must be omitted: %v", args)
	}
	if indexOf(args, "-movflags") != -1 {
		t.Errorf("AVI output must not get -movflags: %v", args)
	}
	if got := args[indexOf(args, "-r")+1]; got != "29.970" {
		t.Errorf("-r = %q, want 29.970", got)
	}
}

func TestBuildAnalysisArgs(t *testing.T) {
	args := BuildAnalysisArgs("/out/concat.txt", "vidstabdetect=shakiness=6:accuracy=9:result='/out/t.trf'")

	want := []string{
		"ffmpeg", "-hide_banner", "-nostdin", "-y",
		"-loglevel", "error",
		"-fflags", "+genpts",
		"-f", "concat", "-safe", "0", "-i", "/out/concat.txt",
		"-vf", "vidstabdetect=shakiness=6:accuracy=9:result='/out/t.trf'",
		"-avoid_negative_ts", "make_zero",
		"-an",
		"-f", "null", "-",
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("BuildAnalysisArgs() = %v, want %v", args, want)
	}
}

func indexOf(args []string, s string) int {
	for i, a := range args {
		if a == s {
			return i
		}
	}
	return -1
}
