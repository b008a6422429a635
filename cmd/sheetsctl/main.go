package main

import (
	"fmt"
	"os"

	"github.com/localnerve/jam-build-testsheets/internal/cli"
	"github.com/localnerve/jam-build-testsheets/internal/config"
	"github.com/localnerve/jam-build-testsheets/internal/database"
	"gorm.io/gorm"
)

func main() {
	var db *gorm.DB
	open := func() (*gorm.DB, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		db, err = database.Connect(cfg)
		return db, err
	}

	err := cli.RootCmd(open).Execute()
	if db != nil {
		database.Close(db)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
