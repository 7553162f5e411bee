package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/bryanwahyu/chatlens/internal/application/analysis"
	"github.com/bryanwahyu/chatlens/internal/config"
	"github.com/bryanwahyu/chatlens/internal/domain/chat"
	"github.com/bryanwahyu/chatlens/internal/infra/chatfile"
	minioStore "github.com/bryanwahyu/chatlens/internal/infra/storage"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := strings.ToLower(strings.TrimSpace(os.Args[1]))
	args := os.Args[2:]

	switch cmd {
	case "analyze":
		runAnalyze(args)
	case "upload":
		runUpload(args)
	case "help", "-h", "--help":
		usage()
	default:
		fatalf("unknown command %q", cmd)
	}
}

func runAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", "", "optional config.yaml for analysis settings")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	top := fs.Int("top", 10, "keywords to print in the text report")
	mustParse(fs, args)

	if fs.NArg() != 1 {
		fatalf("usage: chatlens analyze [-json] [-config path] <chat.txt>")
	}
	path := fs.Arg(0)
	if _, err := os.Stat(path); err != nil {
		fatalf("파일을 찾을 수 없습니다: %s", path)
	}

	cfg := loadConfig(*configPath)
	settings, err := cfg.AnalysisSettings()
	if err != nil {
		fatalf("analysis settings: %v", err)
	}
	svc := &analysis.Service{Settings: settings, Source: chatfile.New(path)}

	res, err := svc.AnalyzeLegacy(context.Background())
	if err != nil {
		fatalf("%s", chat.UserMessage(err))
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fatalf("encode: %v", err)
		}
		return
	}
	printReport(os.Stdout, path, res, *top)
}

func runUpload(args []string) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "config.yaml with legacy.minio settings")
	mustParse(fs, args)

	if fs.NArg() != 1 {
		fatalf("usage: chatlens upload [-config path] <chat.txt>")
	}
	cfg := loadConfig(*configPath)
	m := cfg.Legacy.Minio
	if m.Endpoint == "" || m.BucketName == "" || m.ObjectKey == "" {
		fatalf("legacy.minio endpoint, bucketName and objectKey are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	store, err := minioStore.New(ctx, m.Endpoint, m.Region, m.BucketName, m.ObjectKey, m.AccessKey, m.SecretKey, m.UseSSL)
	if err != nil {
		fatalf("minio init: %v", err)
	}
	url, err := store.Upload(ctx, fs.Arg(0))
	if err != nil {
		fatalf("upload failed: %v", err)
	}
	fmt.Printf("uploaded: %s\n", url)
}

func printReport(w io.Writer, path string, res *chat.AnalysisResult, top int) {
	fmt.Fprintf(w, "=== %s ===\n", path)
	fmt.Fprintf(w, "총 %d개의 메시지\n", res.TotalMessages)

	fmt.Fprintln(w, "\n[참여자별 발화량]")
	for i, p := range res.Participation {
		fmt.Fprintf(w, "%d. %s: %d회 (%d%%)\n", i+1, p.Sender, p.Count, p.Ratio)
	}

	fmt.Fprintf(w, "\n[핵심 키워드 Top %d]\n", top)
	if len(res.Keywords) == 0 {
		fmt.Fprintln(w, "분석할 만한 단어가 충분하지 않습니다.")
	}
	for i, k := range res.Keywords {
		if top > 0 && i >= top {
			break
		}
		fmt.Fprintf(w, "%d. %s (%d회)\n", i+1, k.Word, k.Count)
	}

	fmt.Fprintln(w, "\n[시간대별 메시지]")
	peak := 0
	for _, s := range res.TimeDistribution {
		if s.Count > peak {
			peak = s.Count
		}
	}
	for _, s := range res.TimeDistribution {
		if s.Count == 0 {
			continue
		}
		bar := s.Count
		if peak > 30 {
			bar = max(1, s.Count*30/peak)
		}
		fmt.Fprintf(w, "%02d시 %s %d\n", s.Hour, strings.Repeat("#", bar), s.Count)
	}

	fmt.Fprintf(w, "\n[관심도] %d점 (%s)\n", res.InterestScore, res.InterestLabel)
	fmt.Fprintf(w, "[주제] %s\n", res.Topic)
	fmt.Fprintf(w, "[요약] %s\n", res.Summary)
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default()
	}
	if err != nil {
		fatalf("config: %v", err)
	}
	return cfg
}

func mustParse(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fatalf("%v", err)
	}
}

func usage() {
	fmt.Println(`chatlens - KakaoTalk export analyzer

Usage:
  chatlens analyze [-json] [-top N] [-config path] <chat.txt>
  chatlens upload [-config path] <chat.txt>`)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
