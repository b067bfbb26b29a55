package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iowanobos/kafka-priority/relay"
)

const (
	configPrefix = "PRIORITY"
)

type config struct {
	GroupID         string        `envconfig:"GROUP_ID" default:"priority-relay"`
	Brokers         string        `envconfig:"BROKERS" default:"localhost:9092"`
	InputTopic      string        `envconfig:"INPUT_TOPIC" default:"tasks"`
	OutputTopic     string        `envconfig:"OUTPUT_TOPIC" default:"tasks_prioritized"`
	BatchSize       int           `envconfig:"BATCH_SIZE" default:"1024"`
	BatchWindow     time.Duration `envconfig:"BATCH_WINDOW" default:"1s"`
	QueueCapacity   int           `envconfig:"QUEUE_CAPACITY" default:"1024"`
	DefaultPriority int           `envconfig:"DEFAULT_PRIORITY" default:"0"`
	SessionTimeout  time.Duration `envconfig:"SESSION_TIMEOUT" default:"30s"`
	CreateTopics    bool          `envconfig:"CREATE_TOPICS" default:"false"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := new(config)
	envconfig.MustProcess(configPrefix, cfg)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithError(err).Fatal("parse log level failed")
	}
	logrus.SetLevel(level)

	brokers := strings.Split(cfg.Brokers, ",")
	if cfg.CreateTopics {
		if err = relay.CreateTopics(ctx, brokers, []string{cfg.InputTopic, cfg.OutputTopic}); err != nil {
			logrus.WithError(err).Fatal("create topics failed")
		}
	}

	r, err := relay.NewKafka(relay.Options{
		Brokers:         brokers,
		Group:           cfg.GroupID,
		InputTopic:      cfg.InputTopic,
		OutputTopic:     cfg.OutputTopic,
		BatchSize:       cfg.BatchSize,
		BatchWindow:     cfg.BatchWindow,
		QueueCapacity:   cfg.QueueCapacity,
		DefaultPriority: cfg.DefaultPriority,
		SessionTimeout:  cfg.SessionTimeout,
	})
	if err != nil {
		logrus.WithError(err).Fatal("create relay failed")
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return r.Run(ctx)
	})
	eg.Go(func() error {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc,
			syscall.SIGHUP,
			syscall.SIGINT,
			syscall.SIGTERM,
			syscall.SIGQUIT)
		defer signal.Stop(sigc)

		select {
		case <-ctx.Done():
		case <-sigc:
			logrus.Info("Start shutdowning")
			cancel()
		}
		return nil
	})

	if err = eg.Wait(); err != nil {
		logrus.WithError(err).Error("relay failed")
	}
	if err = r.Close(); err != nil {
		logrus.WithError(err).Error("close relay failed")
	}
	logrus.Info("Application shut downing...")
}
