// Command evaluate оценивает модель COVID-19 на отложенной части датасета.
//
//	evaluate -covid datos/covid -normal datos/normal -test 0.2 -seed 42
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"xray-bot/config"
	"xray-bot/internal/container"
	"xray-bot/internal/domain/entity"
	"xray-bot/internal/infrastructure/dataset"
	"xray-bot/internal/infrastructure/onnx"
	"xray-bot/internal/infrastructure/storage"
	"xray-bot/internal/infrastructure/vision"
)

func main() {
	covidDir := flag.String("covid", "datos/covid", "directory with COVID-19 radiographs")
	normalDir := flag.String("normal", "datos/normal", "directory with normal radiographs")
	testRatio := flag.Float64("test", 0.2, "share of the dataset held out for evaluation")
	seed := flag.Uint64("seed", 42, "shuffle seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *covidDir, *normalDir, *testRatio, *seed); err != nil {
		stop()
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config, covidDir, normalDir string, testRatio float64, seed uint64) error {
	samples, err := dataset.Load(covidDir, normalDir)
	if err != nil {
		return err
	}
	train, test, err := dataset.Split(samples, testRatio, seed)
	if err != nil {
		return err
	}
	fmt.Printf("Tamaño del conjunto de entrenamiento: %d\n", len(train))
	fmt.Printf("Tamaño del conjunto de prueba: %d\n", len(test))

	preprocessor, err := vision.New(cfg.Preprocessor, cfg.ResizeFilter)
	if err != nil {
		return err
	}

	if err := onnx.InitRuntime(cfg.OnnxRuntimeLib); err != nil {
		return err
	}
	defer onnx.DestroyRuntime()

	covid, err := onnx.Open("covid", cfg.CovidModelPath, cfg.CovidMetadataPath, onnx.CovidDefaults())
	if err != nil {
		return err
	}
	defer covid.Close()

	c := container.New(storage.NewMemoryUserRepository(), nil, preprocessor, container.Models{Covid: covid})
	report, err := c.EvaluationService.Evaluate(ctx, test)
	if err != nil {
		return err
	}

	printReport(os.Stdout, report)
	return nil
}

func printReport(w io.Writer, r *entity.EvaluationReport) {
	fmt.Fprintf(w, "Evaluados: %d (omitidos: %d)\n", r.Total(), r.Skipped)
	fmt.Fprintf(w, "Precisión (accuracy): %.4f\n", r.Accuracy())
	fmt.Fprintf(w, "Pérdida: %.4f\n", r.Loss())
	fmt.Fprintf(w, "Precision COVID: %.4f\n", r.Precision())
	fmt.Fprintf(w, "Recall COVID: %.4f\n", r.Recall())
	fmt.Fprintln(w, "Matriz de confusión (filas: real, columnas: predicción):")
	fmt.Fprintf(w, "          normal  covid\n")
	fmt.Fprintf(w, "normal  %7d %6d\n", r.Confusion[entity.LabelNormal][entity.LabelNormal], r.Confusion[entity.LabelNormal][entity.LabelCovid])
	fmt.Fprintf(w, "covid   %7d %6d\n", r.Confusion[entity.LabelCovid][entity.LabelNormal], r.Confusion[entity.LabelCovid][entity.LabelCovid])
}
