// Command membersearch prints one page of the members matching the flags as JSON.
//
//	membersearch -c configs/config.yaml -age-goe 15 -team teamB -page 0 -size 3 -sort -m.age,m.username!
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ti/memberquery/config"
	"github.com/ti/memberquery/dependencies"
	"github.com/ti/memberquery/dependencies/database"
	"github.com/ti/memberquery/graceful"
	"github.com/ti/memberquery/log"
	"github.com/ti/memberquery/member"
	"github.com/ti/memberquery/paging"
	"github.com/ti/memberquery/predicate"

	// database drivers, database.New picks one by the uri scheme
	_ "github.com/ti/memberquery/dependencies/database/mock"
	_ "github.com/ti/memberquery/dependencies/mongo"
	_ "github.com/ti/memberquery/dependencies/sql"
)

func main() {
	var (
		cond     member.SearchCondition
		req      paging.Request
		sortKeys string
	)
	stringFlag := func(name, usage string, target *predicate.Optional[string]) {
		flag.Func(name, usage, func(s string) error {
			*target = predicate.Some(s)
			return nil
		})
	}
	intFlag := func(name, usage string, target *predicate.Optional[int]) {
		flag.Func(name, usage, func(s string) error {
			v, err := strconv.Atoi(s)
			if err != nil {
				return err
			}
			*target = predicate.Some(v)
			return nil
		})
	}
	stringFlag("username", "exact username", &cond.Username)
	stringFlag("username-contains", "username substring", &cond.UsernameContains)
	intFlag("age-goe", "minimum age", &cond.AgeGoe)
	intFlag("age-loe", "maximum age", &cond.AgeLoe)
	stringFlag("team", "team name", &cond.TeamName)
	flag.IntVar(&req.Page, "page", 0, "zero based page index")
	flag.IntVar(&req.Size, "size", 0, "page size, the configured default when 0")
	flag.StringVar(&sortKeys, "sort", "", "comma separated sort keys, for exp: -m.age,m.username!")
	teamless := flag.Bool("teamless", false, "keep the members without team")
	simple := flag.Bool("simple", false, "always count the total")
	metrics := flag.Bool("metrics", false, "log the query metrics on exit")

	ctx := context.Background()
	cfg := config.Default()
	if err := config.Init(ctx, "", &cfg); err != nil {
		fatal("config.init", err)
	}
	if !flag.Parsed() {
		flag.Parse()
	}
	if sortKeys != "" {
		req.Sort = database.ParseSort(strings.Split(sortKeys, ","))
	}
	var opts []member.CallOption
	if *teamless {
		opts = append(opts, member.WithTeamless())
	}
	err := graceful.Run(ctx, func(ctx context.Context) error {
		return run(ctx, &cfg, cond, req, *simple, *metrics, opts)
	})
	if err != nil {
		fatal("member.searchPage", err)
	}
}

// Dependencies the clients of the command.
type Dependencies struct {
	Database database.Database
}

func run(ctx context.Context, cfg *config.Config, cond member.SearchCondition, req paging.Request,
	simple, metrics bool, opts []member.CallOption) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(member.Collectors()...)
	registry.MustRegister(paging.Collectors()...)

	var deps Dependencies
	err := dependencies.Init(ctx, &deps, map[string]string{"database": cfg.Database.URI},
		dependencies.WithNewFns(database.New))
	if err != nil {
		return err
	}
	repo := member.New(deps.Database,
		member.WithLimits(cfg.Paging.Limits()),
		member.WithConcurrentCountDefault(cfg.Paging.ConcurrentCount))
	search := repo.SearchPage
	if simple {
		search = repo.SearchPageSimple
	}
	page, err := search(ctx, cond, req, opts...)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err = enc.Encode(page); err != nil {
		return err
	}
	if metrics {
		logMetrics(registry)
	}
	return nil
}

func logMetrics(registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		log.Action("metrics").Warn(err.Error())
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make(map[string]any, len(m.GetLabel())+1)
			labels["metric"] = mf.GetName()
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				log.With(labels).Info("value %v", m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				log.With(labels).Info("count %d sum %v", m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum())
			}
		}
	}
}

func fatal(action string, err error) {
	log.Action(action).Error(err.Error())
	os.Exit(1)
}
