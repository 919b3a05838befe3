package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	sqlx "github.com/jmoiron/sqlx"

	"github.com/pybar-go/clusterizer/clusterizer"
)

var (
	logger    Logger
	dbConn    *sqlx.DB
	verbosity int
)

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	logger = newLogger()

	config, err := LoadConfiguration(*configFilename)
	if err != nil {
		logger.Error(fmt.Sprintf("error reading configuration file: %v", err))
		os.Exit(1)
	}
	verbosity = config.Verbosity
	if verbosity > 0 {
		logger.Info(fmt.Sprintf("reading configuration file: %s", *configFilename), "main")
	}

	cfg := clusterizer.NewConfig()
	cfg.SetDx(config.Dx)
	cfg.SetDy(config.Dy)
	cfg.SetDBCID(config.DBCID)
	cfg.SetMinClusterHits(config.MinClusterHits)
	cfg.SetMaxClusterHits(config.MaxClusterHits)
	cfg.SetMaxHitTot(config.MaxHitTot)
	cfg.SetMaxClusterHitTot(config.MaxClusterHitTot)
	cfg.SetClusterInfoEnabled(config.ClusterInfoEnabled)
	cfg.SetClusterHitInfoEnabled(config.ClusterHitInfoEnabled)
	cfg.SetEnableChargeHistograms(config.EnableCharge)

	c := clusterizer.NewClusterizer(cfg)
	clusterizer.SetLogger(logger)

	clusterInfoOut := make([]clusterizer.ClusterInfo, 100000)
	c.SetClusterInfoArray(clusterInfoOut)

	var clusterHitInfoOut []clusterizer.ClusterHitInfo
	if config.ClusterHitInfoEnabled {
		clusterHitInfoOut = make([]clusterizer.ClusterHitInfo, 1<<20)
		c.SetClusterHitInfoArray(clusterHitInfoOut)
	}

	if !config.NoDB {
		dbConn, err = ConnectToDatabase(config.User, config.Passwd, config.Host, config.DBName)
		if err != nil {
			logger.Error(fmt.Sprintf("error connecting to database: %v", err))
			os.Exit(1)
		}
		defer dbConn.Close()

		calib, err := LoadChargeCalibration(c, dbConn, config.RunNumber)
		if err != nil {
			logger.Error(fmt.Sprintf("error loading charge calibration: %v", err))
			os.Exit(1)
		}
		WriteCalibrationSummary(calib)
	}

	file, err := os.Open(config.FileIn)
	if err != nil {
		logger.Error(fmt.Sprintf("error opening input file: %v", err))
		os.Exit(1)
	}
	defer file.Close()

	nHits, err := countHits(file)
	if err != nil {
		logger.Error(fmt.Sprintf("error counting hits: %v", err))
		os.Exit(1)
	}
	logger.Info(fmt.Sprintf("input file contains %d hit records", nHits), "main")

	writer := NewWriter(config.FileOut)
	defer writer.Close()

	reader := NewFileReader(file, config.Skip, config.MaxEvents)

	// The whole run is read into memory before clustering: AddHits must
	// see every hit of an event in one contiguous run to frame events
	// correctly, so hits cannot be handed to it in arbitrarily sized
	// chunks that might split an event in two.
	hits := make([]clusterizer.HitInfo, 0, nHits)
	for {
		hit, err := reader.getNextHit()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Error(fmt.Sprintf("error reading hit: %v", err))
			os.Exit(1)
		}
		hits = append(hits, hit)
	}

	start := time.Now()
	if err := c.AddHits(hits); err != nil {
		logger.Error(fmt.Sprintf("clusterizer error: %v", err))
		os.Exit(1)
	}

	writer.WriteClusters(clusterInfoOut[:c.NClusters()])
	if config.ClusterHitInfoEnabled {
		writer.WriteClusterHits(clusterHitInfoOut)
	}
	writer.WriteHistograms(c)

	logger.Info(fmt.Sprintf("processed %d hits in %s", reader.hitCount, time.Since(start)), "main")
}
