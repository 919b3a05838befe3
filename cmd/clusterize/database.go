package main

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx"

	"github.com/pybar-go/clusterizer/clusterizer"
)

// ConnectToDatabase opens the calibration database used to look up
// per-pixel charge values.
func ConnectToDatabase(user, pass, host, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	return sqlx.Connect("mysql", dbURI)
}

// calibrationRow is one (column, row, tot) -> charge entry as stored in
// the calibration table.
type calibrationRow struct {
	Column uint16  `db:"col"`
	Row    uint16  `db:"row"`
	Tot    uint16  `db:"tot"`
	Charge float32 `db:"charge"`
}

// LoadChargeCalibration reads the calibration table for the given run,
// installs every entry into c's charge-calibration grid, and returns
// the entries keyed by (column, row, tot) for downstream reporting.
func LoadChargeCalibration(c *clusterizer.Clusterizer, db *sqlx.DB, runNumber int) (map[[3]uint16]float32, error) {
	query := fmt.Sprintf(
		"SELECT col, row, tot, charge FROM PixelChargeCalibration WHERE MinRun <= %d AND MaxRun >= %d",
		runNumber, runNumber)

	rows, err := db.Queryx(query)
	if err != nil {
		return nil, fmt.Errorf("error querying calibration table: %w", err)
	}
	defer rows.Close()

	loaded := make(map[[3]uint16]float32)
	for rows.Next() {
		var r calibrationRow
		if err := rows.StructScan(&r); err != nil {
			return nil, fmt.Errorf("error scanning calibration row: %w", err)
		}
		c.SetChargeCalibration(r.Column, r.Row, r.Tot, r.Charge)
		loaded[[3]uint16{r.Column, r.Row, r.Tot}] = r.Charge
	}
	logger.Info(fmt.Sprintf("loaded %d charge calibration entries", len(loaded)), "database")
	return loaded, nil
}
