package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"NewsPulse/internal/di"
	"NewsPulse/internal/domain/models"
	domrepo "NewsPulse/internal/domain/repository"
	"NewsPulse/internal/fetch"
	"NewsPulse/internal/plot"
	internalrepo "NewsPulse/internal/repository"
	"NewsPulse/internal/sentiment"
	"NewsPulse/internal/store"
	"NewsPulse/internal/textproc"
	"NewsPulse/internal/translate"
	"NewsPulse/internal/usecase"
	"NewsPulse/pkg/cache"
	pkgch "NewsPulse/pkg/clickhouse"
	"NewsPulse/pkg/config"
	pkghttp "NewsPulse/pkg/http"
	pkgkafka "NewsPulse/pkg/kafka"
	"NewsPulse/pkg/logger"
	"NewsPulse/pkg/metrics"
	"NewsPulse/pkg/util"
)

const usageText = `modes:
  fetch-news    fetch ticker and market news into the raw table
  fetch-prices  fetch daily bars into the price table
  process-news  detect language, filter, translate, score sentiment
  combine       build the feature table from bars and clean news
  scale         split, fit the scaler on train, write datasets
  plot          render per-ticker charts from the feature table
  serve         expose the feature table over HTTP
  all           run every batch stage in order`

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "config file path")
		mode       = flag.String("mode", "", "pipeline stage to run")
		tickersArg = flag.String("tickers", "", "comma-separated tickers, e.g. AAPL,MSFT")
		fromArg    = flag.String("from", "", "start date (YYYY-MM-DD)")
		toArg      = flag.String("to", "", "end date (YYYY-MM-DD), defaults to today")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s -mode <mode> [flags]\n%s\n\nflags:\n", os.Args[0], usageText)
		flag.PrintDefaults()
	}
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	appLog, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	if *mode == "" {
		flag.Usage()
		os.Exit(2)
	}

	p := &pipeline{
		cfg:     cfg,
		log:     appLog,
		metrics: metrics.New(),
		tickers: splitTickers(*tickersArg),
	}
	if p.from, p.to, err = parseDateRange(*fromArg, *toArg); err != nil {
		appLog.Fatal("bad date range", logger.Error(err))
	}

	ctx := context.Background()
	if err := p.run(ctx, *mode); err != nil {
		appLog.Fatal("stage failed", logger.String("mode", *mode), logger.Error(err))
	}
}

type pipeline struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics domrepo.Metrics
	tickers []string
	from    time.Time
	to      time.Time
}

func (p *pipeline) run(ctx context.Context, mode string) error {
	switch mode {
	case "fetch-news":
		return p.fetchNews(ctx)
	case "fetch-prices":
		return p.fetchPrices(ctx)
	case "process-news":
		return p.processNews(ctx)
	case "combine":
		return p.combine(ctx)
	case "scale":
		return p.scale(ctx)
	case "plot":
		return p.plot()
	case "serve":
		return p.serve()
	case "all":
		for _, stage := range []func(context.Context) error{
			p.fetchNews, p.fetchPrices, p.processNews, p.combine, p.scale,
		} {
			if err := stage(ctx); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

func (p *pipeline) fetchNews(ctx context.Context) error {
	if err := p.cfg.RequireNewsKey(); err != nil {
		return err
	}
	client := fetch.NewNewsClient(
		pkghttp.NewClient(),
		p.cfg.News.BaseURL,
		p.cfg.News.APIKey,
		p.log,
		fetch.WithNewsThrottle(fetch.NewThrottle(p.cfg.News.RequestDelay, p.cfg.News.MaxRequests)),
	)
	uc := usecase.NewFetchNewsUseCase(client,
		store.NewArticleStore(p.cfg.Data.RawNewsFile),
		p.metrics, p.log,
		usecase.FetchNewsConfig{
			WindowDays:    p.cfg.News.WindowDays,
			GeneralQuery:  p.cfg.News.GeneralQuery,
			GeneralTicker: p.cfg.Features.GeneralTicker,
		})
	_, err := uc.Run(ctx, usecase.FetchNewsParams{Tickers: p.tickers, From: p.from, To: p.to})
	return err
}

func (p *pipeline) fetchPrices(ctx context.Context) error {
	if err := p.cfg.RequirePricesKey(); err != nil {
		return err
	}
	client := fetch.NewPriceClient(
		pkghttp.NewClient(),
		p.cfg.Prices.BaseURL,
		p.cfg.Prices.APIKey,
		p.log,
		fetch.WithPriceThrottle(fetch.NewThrottle(p.cfg.Prices.RequestDelay, 0)),
	)
	uc := usecase.NewFetchPricesUseCase(client,
		store.NewPriceStore(p.cfg.Data.PricesFile),
		p.metrics, p.log)
	_, err := uc.Run(ctx, usecase.FetchPricesParams{Tickers: p.tickers, From: p.from, To: p.to})
	return err
}

func (p *pipeline) processNews(ctx context.Context) error {
	translator := translate.NewTranslator(
		[]translate.Provider{
			translate.NewGoogleProvider(pkghttp.NewClient()),
			translate.NewMyMemoryProvider(pkghttp.NewClient()),
		},
		p.translationCache(),
		translate.Options{
			TargetLang:  p.cfg.Process.TargetLang,
			ChunkSize:   p.cfg.Process.ChunkSize,
			MaxRetries:  p.cfg.Process.MaxRetries,
			BackoffBase: p.cfg.Process.BackoffBase,
			BackoffMax:  p.cfg.Process.BackoffMax,
			Timeout:     p.cfg.Process.TranslateTimeout,
			CacheTTL:    p.cfg.Cache.TTL,
		},
		p.log,
	)
	uc := usecase.NewProcessNewsUseCase(
		store.NewArticleStore(p.cfg.Data.RawNewsFile),
		store.NewArticleStore(p.cfg.Data.CleanNewsFile),
		translator,
		sentiment.NewScorer(),
		textproc.FilterConfig{
			Blacklist: p.cfg.Process.LangBlacklist,
			Junk: textproc.JunkConfig{
				NonLatinRatio: p.cfg.Process.NonLatinRatio,
				KeepCJK:       *p.cfg.Process.KeepCJK,
			},
		},
		p.metrics, p.log)
	_, err := uc.Run(ctx)
	return err
}

func (p *pipeline) combine(ctx context.Context) error {
	sink, err := p.featureSink(ctx)
	if err != nil {
		return err
	}
	if sink != nil {
		defer sink.Close()
	}
	uc := usecase.NewCombineUseCase(
		store.NewArticleStore(p.cfg.Data.CleanNewsFile),
		store.NewPriceStore(p.cfg.Data.PricesFile),
		store.NewFeatureStore(p.cfg.Data.FeaturesFile),
		sink,
		p.cfg.Features.GeneralTicker,
		p.metrics, p.log)
	_, err = uc.Run(ctx)
	return err
}

func (p *pipeline) scale(ctx context.Context) error {
	uc := usecase.NewScaleUseCase(
		store.NewFeatureStore(p.cfg.Data.FeaturesFile),
		store.NewFeatureStore(p.cfg.Data.TrainFile),
		store.NewFeatureStore(p.cfg.Data.TestFile),
		p.cfg.Data.ScalerFile,
		p.cfg.Features.Columns,
		p.cfg.Features.SplitRatio,
		p.metrics, p.log)
	_, err := uc.Run(ctx)
	return err
}

func (p *pipeline) plot() error {
	rows, err := store.NewFeatureStore(p.cfg.Data.FeaturesFile).Load()
	if err != nil {
		return fmt.Errorf("load feature table: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("feature table is empty, run combine first")
	}

	byTicker := make(map[string][]models.FeatureRow)
	for _, r := range rows {
		byTicker[r.Ticker] = append(byTicker[r.Ticker], r)
	}
	exporter := plot.NewExporter(p.cfg.Data.ChartsDir, p.log)
	var tickers []string
	for t := range byTicker {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	for _, t := range tickers {
		series := byTicker[t]
		sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
		if _, err := exporter.Render(t, series); err != nil {
			p.log.Warn("chart skipped", logger.String("ticker", t), logger.Error(err))
		}
	}
	return nil
}

func (p *pipeline) serve() error {
	app, err := di.InitializeApp(p.cfg)
	if err != nil {
		return fmt.Errorf("app initialization: %w", err)
	}
	return app.Run()
}

// translationCache builds the layered cache: always an in-process LRU,
// with redis behind it when enabled.
func (p *pipeline) translationCache() cache.Service {
	if !p.cfg.Cache.Enabled {
		return nil
	}
	var redisCache *cache.RedisCache
	if p.cfg.Cache.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(p.cfg.Cache.Redis.Host),
			cache.WithRedisPort(p.cfg.Cache.Redis.Port),
			cache.WithRedisPassword(p.cfg.Cache.Redis.Password),
			cache.WithRedisDB(p.cfg.Cache.Redis.DB),
		)
		if err != nil {
			p.log.Warn("redis unavailable, using memory cache only", logger.Error(err))
		} else {
			redisCache = rc
		}
	}
	return cache.NewLayeredCache(redisCache, cache.WithMemoryMaxSize(p.cfg.Cache.MemoryMaxSize))
}

// featureSink builds the optional export backend behind the combine stage.
func (p *pipeline) featureSink(ctx context.Context) (domrepo.FeatureSink, error) {
	switch p.cfg.Sink.Type {
	case "", "none":
		return nil, nil
	case "clickhouse":
		ch := p.cfg.Sink.ClickHouse
		client, err := pkgch.NewClient(
			pkgch.WithHost(ch.Host),
			pkgch.WithPort(ch.Port),
			pkgch.WithDatabase(ch.Database),
			pkgch.WithCredentials(ch.User, ch.Password),
			pkgch.WithHTTP(ch.UseHTTP),
			pkgch.WithAsyncInsert(ch.AsyncInsert, ch.WaitForAsync),
			pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout, ch.WriteTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}
		return internalrepo.NewClickHouseSink(ctx, client, p.log)
	case "kafka":
		k := p.cfg.Sink.Kafka
		producer, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(k.Brokers),
			pkgkafka.WithCompression(k.Compression),
			pkgkafka.WithRequiredAcks(k.RequiredAcks),
			pkgkafka.WithBatchSize(k.BatchSize),
			pkgkafka.WithMaxAttempts(k.MaxAttempts),
			pkgkafka.WithTimeouts(k.WriteTimeout, k.WriteTimeout),
			pkgkafka.WithHashByKey(true),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		return internalrepo.NewKafkaSink(producer, k.Topic, p.log), nil
	default:
		return nil, fmt.Errorf("unknown sink type %q", p.cfg.Sink.Type)
	}
}

func splitTickers(arg string) []string {
	if arg == "" {
		return nil
	}
	parts := strings.Split(arg, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if t := strings.ToUpper(strings.TrimSpace(part)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func parseDateRange(from, to string) (time.Time, time.Time, error) {
	now := util.Day(time.Now().UTC())
	f := now.AddDate(0, -1, 0)
	t := now
	if from != "" {
		var ok bool
		if f, ok = util.ParseDay(from); !ok {
			return f, t, fmt.Errorf("from: want YYYY-MM-DD, got %q", from)
		}
	}
	if to != "" {
		var ok bool
		if t, ok = util.ParseDay(to); !ok {
			return f, t, fmt.Errorf("to: want YYYY-MM-DD, got %q", to)
		}
	}
	return f, t, nil
}
