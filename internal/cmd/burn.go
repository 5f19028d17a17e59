package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fcjr/acetylene/internal/burn"
	"github.com/fcjr/acetylene/internal/device"
	"github.com/fcjr/acetylene/internal/metrics"
)

var errCancelled = errors.New("operation cancelled")

var burnCmd = &cobra.Command{
	Use:   "burn [image-file]",
	Short: "Burn a disk image to an SD card or USB stick",
	Long: `Write a raw disk image byte for byte onto a removable device.
Removable SD cards and USB sticks are detected automatically; pick one
interactively or name it with --device (by model name or path).

Every chunk is synced to the device before the next one is written. With
verification enabled (the default) the image digest is computed while
burning and compared against a read-back of the device afterwards.

If no image file is specified, it will look for .img files in the
current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBurn,
}

func init() {
	rootCmd.AddCommand(burnCmd)
	burnCmd.Flags().StringP("device", "d", "", "Target device name or path")
	burnCmd.Flags().Bool("force", false, "Skip confirmation prompts (use with caution)")
	burnCmd.Flags().Bool("verify", true, "Hash the image while burning and verify the device afterwards")
	burnCmd.Flags().String("digest", "sha256", "Digest algorithm used for verification (sha256, blake3)")
	burnCmd.Flags().Int("chunk-size", burn.DefaultChunkSize, "Bytes written and synced per step")
	burnCmd.Flags().StringSlice("passthrough", nil, "Paths accepted as targets without detection (loopback images, files)")
	burnCmd.Flags().String("metrics-textfile", "", "Write Prometheus metrics to this file after the burn")
}

func runBurn(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := app.settings
	logger := app.logger

	alg, err := burn.ParseAlgorithm(s.Digest)
	if err != nil {
		return err
	}

	imagePath, err := findImageFile(args)
	if err != nil {
		return err
	}
	imageInfo, err := os.Stat(imagePath)
	if err != nil {
		return fmt.Errorf("failed to get image file info: %w", err)
	}
	printBurnHeader(imagePath, imageInfo)

	fmt.Printf("%sDetecting available storage devices...%s\n", Bold, Reset)
	devices, err := detectDevices(ctx, s, logger)
	if err != nil && !errors.Is(err, device.ErrUnsupported) {
		return fmt.Errorf("failed to detect devices: %w", err)
	}

	deviceFlag, _ := cmd.Flags().GetString("device")
	devicePath, err := chooseDevice(devices, deviceFlag, s)
	if errors.Is(err, errCancelled) {
		fmt.Printf("Operation cancelled.\n")
		return nil
	}
	if err != nil {
		return err
	}

	target, known := device.Lookup(devices, devicePath)
	if known && target.MBytes > 0 && uint64(imageInfo.Size()) > target.Bytes() {
		return fmt.Errorf("image (%s) does not fit on %s (%s)",
			FormatBytes(imageInfo.Size()), devicePath, FormatBytes(int64(target.Bytes())))
	}

	if !s.Force {
		ok, err := confirm(devicePath, target.Name)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Printf("Operation cancelled.\n")
			return nil
		}
	}

	if known {
		fmt.Printf("\n%sUnmounting %s...%s\n", Bold, devicePath, Reset)
		if err := device.Unmount(ctx, devicePath); err != nil {
			fmt.Printf("%sWarning: failed to unmount disk: %v%s\n", Yellow, err, Reset)
			fmt.Printf("%sAttempting to continue anyway...%s\n", Yellow, Reset)
		} else {
			fmt.Printf("%s✓ Disk unmounted successfully%s\n", Green, Reset)
		}
	}

	cfg := burn.Config{Device: devicePath, Image: imagePath, Digest: alg}
	if s.Verify {
		cfg.Settings = append(cfg.Settings, burn.Verify)
	}

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		return err
	}

	fmt.Printf("\n%sBurning image to %s...%s\n", Bold, devicePath, Reset)
	engine := &burn.Engine{ChunkSize: s.ChunkSize, Logger: logger}
	result, elapsed := burnWithProgress(ctx, engine, cfg, recorder)

	if s.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(s.MetricsTextfile, registry); err != nil {
			logger.Warn("failed to write metrics", zap.Error(err))
		}
	}

	switch result.Kind {
	case burn.KindEnd:
	case burn.KindError:
		return fmt.Errorf("failed to burn image: %w\n"+
			"This could be due to:\n"+
			"- Insufficient permissions (try running with sudo)\n"+
			"- Device still busy/mounted or removed during the burn\n"+
			"- Hardware write protection on the SD card\n"+
			"- Unreadable image file", result.Err)
	default:
		return fmt.Errorf("burn stopped without a result")
	}

	avgSpeed := int64(0)
	if elapsed.Seconds() >= 1 {
		avgSpeed = imageInfo.Size() / int64(elapsed.Seconds())
	}
	fmt.Printf("%s✓ Burn completed in %s (avg: %s/s)%s\n",
		Green, FormatDuration(elapsed), FormatBytes(avgSpeed), Reset)

	if cfg.Has(burn.Verify) {
		if err := verifyDevice(ctx, devicePath, imageInfo.Size(), alg, s.ChunkSize, result.Digest); err != nil {
			return err
		}
	}

	fmt.Printf("\n%s%s✅ Successfully burned image to %s!%s\n", Bold, Green, devicePath, Reset)
	fmt.Printf("%sYou can now safely remove the device.%s\n", Green, Reset)
	return nil
}

// burnWithProgress runs the engine on its own goroutine and renders its
// events until the stream closes. It returns the last event received.
func burnWithProgress(ctx context.Context, engine *burn.Engine, cfg burn.Config, recorder *metrics.Recorder) (burn.Progress, time.Duration) {
	ch := burn.NewChannel(16)
	go engine.Burn(ctx, cfg, ch)

	start := time.Now()
	var bar *progressbar.ProgressBar
	var last burn.Progress
	for p := range ch.Events() {
		recorder.Observe(p)
		switch {
		case p.Kind == burn.KindStart:
			bar = newBurnBar(p.Total)
		case bar == nil:
		case p.Kind == burn.KindProgress:
			_ = bar.Set64(p.Count)
		case p.Kind == burn.KindEnd:
			_ = bar.Finish()
		case p.Kind == burn.KindError:
			_ = bar.Exit()
		}
		last = p
	}
	return last, time.Since(start)
}

func newBurnBar(total int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetDescription("burning"),
		progressbar.OptionThrottle(80*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}

func verifyDevice(ctx context.Context, devicePath string, size int64, alg burn.Algorithm, chunk int, want []byte) error {
	fmt.Printf("\n%sVerifying %s (%s)...%s\n", Bold, devicePath, alg, Reset)
	got, err := burn.HashDevice(ctx, devicePath, size, alg, chunk)
	if err != nil {
		return fmt.Errorf("failed to read back device: %w", err)
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("verification failed: image %s is %x but device holds %x", alg, want, got)
	}
	fmt.Printf("%s✓ Verified %s %x%s\n", Green, alg, got, Reset)
	return nil
}

func detectDevices(ctx context.Context, s settings, logger *zap.Logger) ([]device.Device, error) {
	enumerator := device.Default(logger)
	if e, ok := enumerator.(*device.ByIDEnumerator); ok && s.ByIDDir != "" {
		e.Dir = s.ByIDDir
	}
	if !enumerator.SupportsEnumeration() {
		return nil, device.ErrUnsupported
	}

	found, err := enumerator.Enumerate(ctx)
	if err != nil {
		return nil, err
	}

	var devices []device.Device
	for _, d := range found {
		if s.MaxDeviceSize > 0 && d.Bytes() > s.MaxDeviceSize {
			logger.Debug("hiding large device", zap.String("path", d.Path), zap.Uint64("bytes", d.Bytes()))
			continue
		}
		devices = append(devices, d)
	}
	return devices, nil
}

// chooseDevice resolves --device when given, otherwise asks the user.
func chooseDevice(devices []device.Device, input string, s settings) (string, error) {
	if input != "" {
		resolver := device.Resolver{Passthrough: s.Passthrough}
		path, ok, err := resolver.Resolve(devices, input)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("%s is not a detected removable device\n"+
				"Hint: run 'acetylene devices' to list candidates, or add the path to passthrough", input)
		}
		return path, nil
	}

	if len(devices) == 0 {
		return "", fmt.Errorf("no suitable removable storage devices found\n" +
			"Hint: insert an SD card or USB stick and try again, or pass --device")
	}
	displayDevices(devices)

	if s.Force {
		if len(devices) == 1 {
			return devices[0].Path, nil
		}
		return "", fmt.Errorf("multiple devices available, cannot use --force without --device")
	}

	idx, err := fuzzyfinder.Find(
		devices,
		func(i int) string {
			return deviceLabel(devices[i])
		},
		fuzzyfinder.WithPromptString("device> "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			d := devices[i]
			return fmt.Sprintf("Name:     %s\nPath:     %s\nCapacity: %s (%d MiB)",
				d.Name, d.Path, FormatBytes(int64(d.Bytes())), d.MBytes)
		}),
	)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return "", errCancelled
	}
	if err != nil {
		return "", fmt.Errorf("device selection failed: %w", err)
	}
	return devices[idx].Path, nil
}

func confirm(devicePath, name string) (bool, error) {
	if name == "" {
		name = "unlisted device"
	}
	fmt.Printf("\n%s⚠️  WARNING: This will completely erase all data on %s (%s)%s\n",
		Red, devicePath, name, Reset)
	fmt.Printf("%sDo you want to continue? (yes/no): %s", Bold, Reset)

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read input: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y", nil
}

func findImageFile(args []string) (string, error) {
	if len(args) > 0 {
		return filepath.Abs(args[0])
	}

	entries, err := os.ReadDir(".")
	if err != nil {
		return "", fmt.Errorf("failed to read current directory: %w", err)
	}

	var imgFiles []os.DirEntry
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".img") {
			imgFiles = append(imgFiles, entry)
		}
	}

	if len(imgFiles) == 0 {
		return "", fmt.Errorf("no .img files found in current directory\n" +
			"Hint: specify an image file directly")
	}

	if len(imgFiles) == 1 {
		fmt.Printf("%sUsing found image file: %s%s\n", Green, imgFiles[0].Name(), Reset)
		return filepath.Abs(imgFiles[0].Name())
	}

	// Multiple files found, let user choose
	fmt.Printf("Multiple .img files found:\n")
	for i, file := range imgFiles {
		fmt.Printf("  %d. %s\n", i+1, file.Name())
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("Select image file (1-%d): ", len(imgFiles))
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	choice, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || choice < 1 || choice > len(imgFiles) {
		return "", fmt.Errorf("invalid selection")
	}

	return filepath.Abs(imgFiles[choice-1].Name())
}
