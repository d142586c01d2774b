// Command classify проверяет снимки с диска без Telegram.
//
//	classify [-full] file...
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"xray-bot/config"
	"xray-bot/internal/container"
	"xray-bot/internal/domain/entity"
	"xray-bot/internal/infrastructure/onnx"
	"xray-bot/internal/infrastructure/storage"
	"xray-bot/internal/infrastructure/vision"
)

func main() {
	full := flag.Bool("full", false, "also run the COVID-19 classifier on valid radiographs")
	filter := flag.String("filter", string(vision.FilterLanczos), "resize filter: bilinear, catmullrom, lanczos")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: classify [-full] [-filter lanczos] file...")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := run(cfg, *full, *filter, flag.Args()); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.Config, full bool, filter string, files []string) error {
	preprocessor, err := vision.New(cfg.Preprocessor, filter)
	if err != nil {
		return err
	}

	if err := onnx.InitRuntime(cfg.OnnxRuntimeLib); err != nil {
		return err
	}
	defer onnx.DestroyRuntime()

	var models container.Models
	validity, err := onnx.Open("radiograph", cfg.RadiographModelPath, cfg.RadiographMetadataPath, onnx.ValidityDefaults())
	if err != nil {
		return err
	}
	defer validity.Close()
	models.Validity = validity

	if full {
		covid, err := onnx.Open("covid", cfg.CovidModelPath, cfg.CovidMetadataPath, onnx.CovidDefaults())
		if err != nil {
			return err
		}
		defer covid.Close()
		models.Covid = covid
	}

	c := container.New(storage.NewMemoryUserRepository(), nil, preprocessor, models)
	ctx := context.Background()

	failed := 0
	for _, path := range files {
		line, err := classifyFile(ctx, c, path, full)
		if err != nil {
			failed++
			fmt.Printf("%s: No se pudo procesar la imagen: %v\n", path, err)
			continue
		}
		fmt.Printf("%s: %s\n", path, line)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(files))
	}
	return nil
}

func classifyFile(ctx context.Context, c *container.Container, path string, full bool) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	if !full {
		v, err := c.DiagnosisService.CheckRadiograph(ctx, data)
		if err != nil {
			return "", err
		}
		return describeValidity(v), nil
	}

	d, err := c.DiagnosisService.Diagnose(ctx, 0, 0, data)
	if err != nil {
		return "", err
	}
	if d.Rejected() {
		return describeValidity(d.Validity), nil
	}
	return fmt.Sprintf("%s, COVID-19 %.2f%% (%s)", describeValidity(d.Validity), d.Covid.Probability(), d.Covid.Risk()), nil
}

func describeValidity(v entity.ValidityResult) string {
	if v.IsRadiograph() {
		return fmt.Sprintf("Es una RADIOGRAFÍA (Confianza: %.1f%%)", v.Confidence()*100)
	}
	return fmt.Sprintf("NO es una radiografía (Confianza: %.1f%%)", v.Confidence()*100)
}
