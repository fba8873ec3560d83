package analysis

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

var catalogEntry *DatasetEntry

// DatasetEntry is one row of the dataset catalog: where to find a dataset
// and how to analyze it.
type DatasetEntry struct {
	Name      string  `db:"Name"`
	URL       string  `db:"URL"`
	RunNumber int     `db:"RunNumber"`
	DiscVar   string  `db:"DiscVar"`
	RecoVar   string  `db:"RecoVar"`
	FitLo     float64 `db:"FitLo"`
	FitHi     float64 `db:"FitHi"`
	NEvents   int     `db:"NEvents"`
}

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

// LoadCatalog reads the catalog entry for a dataset and keeps it for
// GetCatalogEntry. Fields found in the catalog override the configuration.
func LoadCatalog(dbConn *sqlx.DB, dataset string) error {
	entry, err := getDatasetFromDB(dbConn, dataset)
	if err != nil {
		errMessage := fmt.Errorf("error getting dataset %q from database: %w", dataset, err)
		logger.Error(errMessage.Error())
		return errMessage
	}
	catalogEntry = &entry
	return nil
}

func GetCatalogEntry() *DatasetEntry {
	return catalogEntry
}

func getDatasetFromDB(db *sqlx.DB, dataset string) (DatasetEntry, error) {
	query := "SELECT Name, URL, RunNumber, DiscVar, RecoVar, FitLo, FitHi, NEvents from Datasets WHERE Name = ?"
	rows, err := db.Queryx(query, dataset)
	if err != nil {
		return DatasetEntry{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		return DatasetEntry{}, fmt.Errorf("dataset %q not in catalog", dataset)
	}
	entry := DatasetEntry{}
	if err := rows.StructScan(&entry); err != nil {
		return DatasetEntry{}, err
	}
	return entry, nil
}

// ApplyCatalogEntry copies the catalog fields over a configuration.
func ApplyCatalogEntry(config *Configuration, entry *DatasetEntry) {
	config.FileIn = entry.URL
	config.RunNumber = entry.RunNumber
	config.DiscVar = entry.DiscVar
	config.RecoVar = entry.RecoVar
	config.FitLo = entry.FitLo
	config.FitHi = entry.FitHi
}
