package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"NewsPulse/internal/domain/models"
	domrepo "NewsPulse/internal/domain/repository"
	"NewsPulse/internal/scaler"
	"NewsPulse/internal/store"
	"NewsPulse/pkg/logger"
)

// ScaleUseCase produces the supervised train/test datasets: drop rows with
// undefined feature cells or no target, split chronologically, fit the
// scaler on the train slice only, persist it, and standardise both slices
// with the one fitted state.
type ScaleUseCase struct {
	featureStore *store.FeatureStore
	trainStore   *store.FeatureStore
	testStore    *store.FeatureStore
	scalerPath   string
	columns      []string
	splitRatio   float64
	metrics      domrepo.Metrics
	log          *logger.Logger
}

func NewScaleUseCase(
	featureStore, trainStore, testStore *store.FeatureStore,
	scalerPath string,
	columns []string,
	splitRatio float64,
	m domrepo.Metrics,
	log *logger.Logger,
) *ScaleUseCase {
	if m == nil {
		m = domrepo.NopMetrics{}
	}
	if splitRatio <= 0 || splitRatio >= 1 {
		splitRatio = 0.8
	}
	return &ScaleUseCase{
		featureStore: featureStore,
		trainStore:   trainStore,
		testStore:    testStore,
		scalerPath:   scalerPath,
		columns:      columns,
		splitRatio:   splitRatio,
		metrics:      m,
		log:          log,
	}
}

type ScaleResult struct {
	TotalRows   int
	UsableRows  int
	TrainRows   int
	TestRows    int
	TrainEnd    time.Time
	TestStart   time.Time
	ScalerState string
}

func (uc *ScaleUseCase) Run(ctx context.Context) (*ScaleResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	rows, err := uc.featureStore.Load()
	if err != nil {
		return nil, fmt.Errorf("load feature table: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("feature table is empty, run combine first")
	}

	usable := uc.usableRows(rows)
	if len(usable) < 2 {
		return nil, fmt.Errorf("only %d usable rows, need at least 2 for a split", len(usable))
	}

	// Oldest first, so the index split is a time split.
	sort.SliceStable(usable, func(i, j int) bool {
		if !usable[i].Date.Equal(usable[j].Date) {
			return usable[i].Date.Before(usable[j].Date)
		}
		return usable[i].Ticker < usable[j].Ticker
	})
	cut := int(float64(len(usable)) * uc.splitRatio)
	if cut == 0 {
		cut = 1
	}
	if cut == len(usable) {
		cut = len(usable) - 1
	}
	train, test := usable[:cut], usable[cut:]

	st, err := scaler.Fit(train, uc.columns)
	if err != nil {
		return nil, fmt.Errorf("fit scaler: %w", err)
	}
	if err := scaler.Save(st, uc.scalerPath); err != nil {
		return nil, err
	}

	trainScaled, err := scaler.Apply(train, st)
	if err != nil {
		return nil, fmt.Errorf("scale train set: %w", err)
	}
	testScaled, err := scaler.Apply(test, st)
	if err != nil {
		return nil, fmt.Errorf("scale test set: %w", err)
	}

	if err := uc.trainStore.Save(trainScaled); err != nil {
		return nil, fmt.Errorf("save train set: %w", err)
	}
	if err := uc.testStore.Save(testScaled); err != nil {
		return nil, fmt.Errorf("save test set: %w", err)
	}
	uc.metrics.RecordLatency("scale", time.Since(start).Seconds())

	res := &ScaleResult{
		TotalRows:   len(rows),
		UsableRows:  len(usable),
		TrainRows:   len(train),
		TestRows:    len(test),
		TrainEnd:    train[len(train)-1].Date,
		TestStart:   test[0].Date,
		ScalerState: uc.scalerPath,
	}
	uc.log.Info("datasets written",
		logger.Int("total_rows", res.TotalRows),
		logger.Int("usable_rows", res.UsableRows),
		logger.Int("train_rows", res.TrainRows),
		logger.Int("test_rows", res.TestRows),
		logger.String("scaler", res.ScalerState))
	return res, nil
}

// usableRows keeps rows with every feature column defined and a known
// next-day target.
func (uc *ScaleUseCase) usableRows(rows []models.FeatureRow) []models.FeatureRow {
	out := make([]models.FeatureRow, 0, len(rows))
rows:
	for i := range rows {
		if !rows[i].HasTarget {
			continue
		}
		for _, col := range uc.columns {
			if math.IsNaN(rows[i].Feature(col)) {
				continue rows
			}
		}
		out = append(out, rows[i])
	}
	return out
}
