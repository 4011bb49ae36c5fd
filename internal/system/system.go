package system

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось получить лимит файлов: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось установить лимит файлов: %v", err)
	} else {
		fmt.Printf("[*] Системный лимит открытых файлов увеличен до %d\n", rLimit.Cur)
	}
}

// RenderWorkers подбирает число параллельных рендеров сегментов.
// Кадр 1080x1920 RGBA занимает ~8МБ, сегмент на несколько секунд держит
// сотни кадров в памяти, поэтому ограничиваем не только по ядрам, но и по
// доступной памяти.
func RenderWorkers(requested, width, height, fps int, maxSegmentSeconds float64) int {
	workers := requested
	if workers <= 0 {
		if n, err := cpu.Counts(true); err == nil {
			workers = n
		} else {
			workers = 4
		}
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return workers
	}

	frameBytes := uint64(width) * uint64(height) * 4
	segmentBytes := frameBytes * uint64(float64(fps)*maxSegmentSeconds)
	if segmentBytes == 0 {
		return workers
	}

	// Не занимаем под кадровые буферы больше половины свободной памяти.
	byMemory := int(vm.Available / 2 / segmentBytes)
	if byMemory < 1 {
		byMemory = 1
	}
	if workers > byMemory {
		log.Printf("[!] Параллелизм снижен до %d из-за нехватки памяти", byMemory)
		workers = byMemory
	}
	return workers
}

// ProbeAudioDuration возвращает длительность аудиофайла в секундах через ffprobe.
func ProbeAudioDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, err
	}

	var duration float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &duration)
	if err != nil {
		return 0, err
	}

	return duration, nil
}

func GetBestH264Encoder() string {
	// Приоритеты:
	// 1. MacOS (VideoToolbox)
	// 2. NVIDIA (NVENC)
	// 3. Software (libx264)
	encoders := []string{"h264_videotoolbox", "h264_nvenc"}

	for _, enc := range encoders {
		cmd := exec.Command("ffmpeg", "-encoders")
		out, err := cmd.CombinedOutput()
		if err == nil && strings.Contains(string(out), enc) {
			return enc
		}
	}

	return "libx264"
}
