package bbox

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

const wireMappingQuery = "SELECT Channel, Cryostat, TPC, Plane, Wire, SignalType FROM WireMapping WHERE MinRun <= ? and MaxRun >= ? ORDER BY Channel"

// LoadChannelMapFromDB reads the channel to wire mapping valid for a run.
func LoadChannelMapFromDB(db *sqlx.DB, runNumber int) (*ChannelMap, error) {
	if verbosity > 0 {
		message := fmt.Sprintf("Reading wire mapping for run %d from database", runNumber)
		logger.Info(message, "database")
	}
	if verbosity > 2 {
		message := fmt.Sprintf("Query: %s", wireMappingQuery)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(wireMappingQuery, runNumber, runNumber)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	entries := make([]WireMappingEntry, 0)
	for rows.Next() {
		result := WireMappingEntry{}
		if err := rows.StructScan(&result); err != nil {
			return nil, fmt.Errorf("error scanning DB row: %w", err)
		}
		entries = append(entries, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading DB rows: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no wire mapping found for run %d", runNumber)
	}

	channelMap, err := NewChannelMap(entries)
	if err != nil {
		return nil, fmt.Errorf("error building channel map: %w", err)
	}
	if err := channelMap.CheckReadout(); err != nil {
		return nil, fmt.Errorf("wire mapping for run %d: %w", runNumber, err)
	}
	return channelMap, nil
}
