package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/ivlev/story2reel/internal/compositor"
	"github.com/ivlev/story2reel/internal/config"
	"github.com/ivlev/story2reel/internal/encoder"
	"github.com/ivlev/story2reel/internal/logging"
	"github.com/ivlev/story2reel/internal/media"
	"github.com/ivlev/story2reel/internal/script"
	"github.com/ivlev/story2reel/internal/storyboard"
	"github.com/ivlev/story2reel/internal/system"
)

func main() {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	// .env необязателен, молча пропускаем если его нет
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}

	scriptPtr := flag.String("script", "", "Путь к YAML-сценарию (обязателен)")
	outputPtr := flag.String("output", "", "Путь к видео (если пусто, генерируется автоматически в output/)")
	presetPtr := flag.String("preset", cfg.Preset, "Пресет формата: 9:16 (Shorts/TikTok), 16:9, 4:5 (Instagram)")
	fpsPtr := flag.Int("fps", cfg.FPS, "FPS")
	workersPtr := flag.Int("workers", cfg.Workers, "Потоки рендера (0 - по ресурсам машины)")
	transitionPtr := flag.Float64("transition", cfg.TransitionDuration, "Длительность перехода (сек)")
	clipDurationPtr := flag.Float64("clip-duration", cfg.DefaultClipDuration, "Длительность сегмента без озвучки (сек)")
	qualityPtr := flag.Int("quality", cfg.Quality, "Качество видео (x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	logLevelPtr := flag.String("log-level", cfg.LogLevel, "Уровень логирования: debug, info, warn, error")
	dryRunPtr := flag.Bool("dry-run", false, "Только план таймлайна, без рендера")

	flag.Parse()

	logger := logging.New(*logLevelPtr)

	if *scriptPtr == "" {
		log.Fatalf("[-] Ошибка: укажите сценарий через -script")
	}

	cfg.Preset = *presetPtr
	width, height := cfg.Dimensions()

	story, err := script.Read(*scriptPtr)
	if err != nil {
		log.Fatalf("[-] Ошибка чтения сценария: %v", err)
	}

	segments, err := story.Resolve()
	if err != nil {
		log.Fatalf("[-] Ошибка сценария: %v", err)
	}
	fmt.Printf("[*] Сценарий: %s (%d сегментов)\n", story.Title, len(segments))

	workers := system.RenderWorkers(*workersPtr, width, height, *fpsPtr, maxSegmentSeconds(segments, *clipDurationPtr))
	fmt.Printf("[*] Потоков рендера: %d\n", workers)

	images := &media.FileImageSource{Width: width, Height: height, Log: logger}
	narration := &media.FileNarrationSource{DefaultDuration: *clipDurationPtr, Log: logger}

	planner := &storyboard.Planner{Images: images, Log: logger}
	segments = planner.Assign(segments)

	comp, err := compositor.New(compositor.Options{
		FPS:              *fpsPtr,
		Width:            width,
		Height:           height,
		TransitionFrames: int(math.Round(*transitionPtr * float64(*fpsPtr))),
		Workers:          workers,
	}, images, narration, logger)
	if err != nil {
		log.Fatalf("[-] Ошибка инициализации: %v", err)
	}

	if *dryRunPtr {
		plan, err := comp.PlanPreview(ctx, segments)
		if err != nil {
			log.Fatalf("[-] Ошибка плана: %v", err)
		}
		total := 0
		for i, n := range plan {
			fmt.Printf("[*] Сегмент %d: %d кадров (%.2fs)\n", i+1, n, float64(n)/float64(*fpsPtr))
			total += n
		}
		fmt.Printf("[*] Всего до переходов: %d кадров (%.2fs)\n", total, float64(total)/float64(*fpsPtr))
		return
	}

	runID := uuid.New().String()[:8]
	finalOutput := *outputPtr
	if finalOutput == "" {
		os.MkdirAll("output", 0755)
		baseName := strings.TrimSuffix(filepath.Base(*scriptPtr), filepath.Ext(*scriptPtr))
		cleanName := strings.ReplaceAll(baseName, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		finalOutput = filepath.Join("output", fmt.Sprintf("%s_%s_%s.mp4", cleanName, timestamp, runID))
	}

	encoderName := cfg.Encoder
	if encoderName == "" {
		encoderName = system.GetBestH264Encoder()
	}
	if encoderName != "libx264" {
		fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
	}

	start := time.Now()
	timeline, err := comp.Run(ctx, segments)
	if err != nil {
		log.Fatalf("[-] Ошибка композиции: %v", err)
	}
	fmt.Printf("[*] Таймлайн готов: %d кадров (%.2fs) за %.1fs\n",
		len(timeline.Frames), timeline.Duration(), time.Since(start).Seconds())

	enc := &encoder.FFmpegEncoder{EncoderName: encoderName, Quality: *qualityPtr, Log: logger}
	if err := enc.Write(ctx, timeline, finalOutput); err != nil {
		log.Fatalf("[-] Ошибка кодирования: %v", err)
	}

	fmt.Printf("[+++] Успех! Результат: %s\n", finalOutput)
}

// maxSegmentSeconds оценивает самый длинный сегмент для расчёта памяти.
func maxSegmentSeconds(segments []script.Segment, fallback float64) float64 {
	max := fallback
	for _, s := range segments {
		if s.Duration > max {
			max = s.Duration
		}
	}
	return max
}
