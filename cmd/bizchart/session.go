package main

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/bizcharts/internal/config"
	"github.com/alexisbeaulieu97/bizcharts/internal/dataload"
	"github.com/alexisbeaulieu97/bizcharts/internal/logger"
	"github.com/alexisbeaulieu97/bizcharts/pkg/chart"
	"github.com/alexisbeaulieu97/bizcharts/pkg/events"
	"github.com/alexisbeaulieu97/bizcharts/pkg/host"
)

// session is a chart document loaded, wired and rendered once.
type session struct {
	doc       *config.Document
	chart     *chart.Chart
	publisher *events.LoggingPublisher
	region    *host.Region
}

func openSession(ctx context.Context, path string, log *logger.Logger) (*session, error) {
	doc, err := config.ParseDocument(path)
	if err != nil {
		return nil, newCommandError("load chart document", path, err, "Check the document against the chart document schema.")
	}

	src, err := dataload.Load(ctx, doc.DataPath(), doc.Data.Fields)
	if err != nil {
		return nil, newCommandError("load data", doc.DataPath(), err, "Data files must be .csv, .json (array of objects) or .parquet.")
	}
	transforms, err := doc.BuildTransforms()
	if err != nil {
		return nil, err
	}
	for _, t := range transforms {
		src.AddTransform(t)
	}

	th, err := doc.ResolveTheme()
	if err != nil {
		return nil, err
	}

	zl := log.Zerolog()
	publisher := events.NewLoggingPublisher(zl)
	c, err := chart.Create(doc.Type, src, doc.Options,
		chart.WithLogger(zl),
		chart.WithTheme(th),
		chart.WithPublisher(publisher),
	)
	if err != nil {
		return nil, newCommandError("create chart", doc.Type, err, "")
	}

	region := host.NewRegion(0, 0)
	if err := c.Render(ctx, host.Ref(region), doc.Render); err != nil {
		return nil, err
	}
	if err := c.LastError(); err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}

	return &session{doc: doc, chart: c, publisher: publisher, region: region}, nil
}
