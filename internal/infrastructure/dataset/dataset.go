// Package dataset загружает размеченные снимки для оценки модели COVID-19.
package dataset

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"xray-bot/internal/domain/entity"
)

// Sample один размеченный снимок на диске.
type Sample struct {
	Path  string
	Label int // entity.LabelNormal или entity.LabelCovid
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// Load собирает снимки из каталогов COVID-19 и нормы (без рекурсии).
func Load(covidDir, normalDir string) ([]Sample, error) {
	covid, err := listImages(covidDir, entity.LabelCovid)
	if err != nil {
		return nil, err
	}
	normal, err := listImages(normalDir, entity.LabelNormal)
	if err != nil {
		return nil, err
	}
	if len(covid) == 0 || len(normal) == 0 {
		return nil, fmt.Errorf("dataset is incomplete: %d covid, %d normal images", len(covid), len(normal))
	}
	return append(covid, normal...), nil
}

func listImages(dir string, label int) ([]Sample, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dataset dir: %w", err)
	}

	var out []Sample
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		out = append(out, Sample{Path: filepath.Join(dir, e.Name()), Label: label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Split перемешивает выборку с фиксированным seed и отделяет testRatio примеров на тест.
func Split(samples []Sample, testRatio float64, seed uint64) (train, test []Sample, err error) {
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, fmt.Errorf("test ratio must be in (0, 1), got %v", testRatio)
	}

	shuffled := make([]Sample, len(samples))
	copy(shuffled, samples)
	rng := rand.New(rand.NewPCG(seed, seed))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	nTest := int(float64(len(shuffled))*testRatio + 0.5)
	if nTest == 0 && len(shuffled) > 1 {
		nTest = 1
	}
	return shuffled[nTest:], shuffled[:nTest], nil
}
