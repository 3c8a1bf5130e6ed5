package forest

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"stock-insights/internal/types"
)

type Params struct {
	Trees           int   `json:"trees"`
	MaxDepth        int   `json:"max_depth"`
	MaxFeatures     int   `json:"max_features"` // 0 means sqrt(n_features)
	MinSamplesSplit int   `json:"min_samples_split"`
	Seed            int64 `json:"seed"`
}

func DefaultParams() Params {
	return Params{Trees: 100, MaxDepth: 12, MinSamplesSplit: 2, Seed: 42}
}

func (p Params) maxFeatures(n int) int {
	if p.MaxFeatures > 0 && p.MaxFeatures <= n {
		return p.MaxFeatures
	}
	m := int(math.Sqrt(float64(n)))
	if m < 1 {
		m = 1
	}
	return m
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.Trees <= 0 {
		p.Trees = d.Trees
	}
	if p.MaxDepth <= 0 {
		p.MaxDepth = d.MaxDepth
	}
	if p.MinSamplesSplit < 2 {
		p.MinSamplesSplit = d.MinSamplesSplit
	}
	return p
}

// Forest is a bagged ensemble for one binary target.
type Forest struct {
	Trees []Tree `json:"trees"`
}

// Proba is the mean leaf probability over all trees.
func (f *Forest) Proba(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	sum := 0.0
	for i := range f.Trees {
		sum += f.Trees[i].Proba(x)
	}
	return sum / float64(len(f.Trees))
}

func fitForest(X [][]float64, y []bool, p Params, seed int64) Forest {
	// Seeds are drawn up front so the result does not depend on scheduling.
	seeds := make([]int64, p.Trees)
	master := rand.New(rand.NewSource(seed))
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	trees := make([]Tree, p.Trees)
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for i := range trees {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			rng := rand.New(rand.NewSource(seeds[i]))
			trees[i] = buildTree(X, y, bootstrap(len(X), rng), p, rng)
		}(i)
	}
	wg.Wait()
	return Forest{Trees: trees}
}

func bootstrap(n int, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.Intn(n)
	}
	return idx
}

// Classifier predicts several independent binary labels, one forest each.
type Classifier struct {
	Features []string `json:"features"`
	Labels   []string `json:"labels"`
	Params   Params   `json:"params"`
	Forests  []Forest `json:"forests"`
}

// Fit trains one forest per label column of Y.
func Fit(X [][]float64, Y [][]bool, featureNames, labelNames []string, p Params) (*Classifier, error) {
	if len(X) == 0 {
		return nil, types.ErrNoTrainingRows
	}
	if len(X) != len(Y) {
		return nil, fmt.Errorf("got %d feature rows and %d label rows", len(X), len(Y))
	}
	for i := range X {
		if len(X[i]) != len(featureNames) || len(Y[i]) != len(labelNames) {
			return nil, fmt.Errorf("row %d: %w", i, types.ErrModelMismatch)
		}
	}

	p = p.withDefaults()
	c := &Classifier{
		Features: append([]string(nil), featureNames...),
		Labels:   append([]string(nil), labelNames...),
		Params:   p,
		Forests:  make([]Forest, len(labelNames)),
	}

	seeds := rand.New(rand.NewSource(p.Seed))
	y := make([]bool, len(Y))
	for l := range labelNames {
		for i := range Y {
			y[i] = Y[i][l]
		}
		c.Forests[l] = fitForest(X, y, p, seeds.Int63())
	}
	return c, nil
}

// PredictProba returns the positive-class probability for each label.
func (c *Classifier) PredictProba(x []float64) ([]float64, error) {
	if len(x) != len(c.Features) {
		return nil, fmt.Errorf("expected %d features, got %d: %w", len(c.Features), len(x), types.ErrModelMismatch)
	}
	out := make([]float64, len(c.Forests))
	for i := range c.Forests {
		out[i] = c.Forests[i].Proba(x)
	}
	return out, nil
}

// Predict sets a label when its probability exceeds one half.
func (c *Classifier) Predict(x []float64) ([]bool, error) {
	probs, err := c.PredictProba(x)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(probs))
	for i, p := range probs {
		out[i] = p > 0.5
	}
	return out, nil
}

// Save writes the model as JSON, replacing any existing file atomically.
func (c *Classifier) Save(path string) error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return os.Rename(tmp, path)
}

func Load(path string) (*Classifier, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var c Classifier
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	if len(c.Forests) != len(c.Labels) {
		return nil, fmt.Errorf("model %s has %d forests for %d labels: %w", path, len(c.Forests), len(c.Labels), types.ErrModelMismatch)
	}
	return &c, nil
}
