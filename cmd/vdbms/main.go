// Command vdbms launches one engine.Instance and runs a scripted demo
// against it (create a table, insert two rows, scan and print them): this
// binary is a minimal
// harness for exercising the engine, not a full SQL shell (parsing/
// binding/planning the SQL surface is out of scope).
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"vdbms/engine"
	"vdbms/plan"
	"vdbms/txn"
	"vdbms/types"
)

func main() {
	var (
		poolSize     = pflag.Int("pool-size", 128, "number of buffer pool frames")
		logLevel     = pflag.String("log-level", "info", "log level: trace, debug, info, warn, error")
		serializable = pflag.Bool("serializable", false, "start new transactions in serializable mode")
	)
	pflag.Parse()

	logger := logrus.New()
	lvl, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vdbms: invalid log level %q: %v\n", *logLevel, err)
		os.Exit(1)
	}
	logger.SetLevel(lvl)

	isolation := txn.SnapshotIsolation
	if *serializable {
		isolation = txn.Serializable
	}

	inst := engine.Open(engine.Options{
		PoolSize:  *poolSize,
		Isolation: isolation,
		Logger:    logger,
	})
	defer inst.Close()

	logger.WithFields(logrus.Fields{
		"pool_size": *poolSize,
		"isolation": isolation,
	}).Info("vdbms engine started")

	// Statement execution over this Instance is driven by an external
	// binder/planner (out of scope). Until one is wired in, this binary
	// proves the engine end to end with a scripted table create/insert/
	// scan.
	if err := runDemo(inst); err != nil {
		logger.WithError(err).Error("demo failed")
		os.Exit(1)
	}
}

func runDemo(inst *engine.Instance) error {
	schema := types.NewSchema([]types.Column{
		{Name: "id", Kind: types.Integer},
		{Name: "name", Kind: types.Varchar, Length: 32},
	})
	table, err := inst.Catalog.CreateTable("widgets", schema)
	if err != nil {
		return err
	}

	insertPlan := plan.NewRawInsert(table.OID, [][]types.Value{
		{types.NewInteger(1), types.NewVarchar("cog")},
		{types.NewInteger(2), types.NewVarchar("sprocket")},
	})
	if _, err := inst.ExecuteAutoCommit(insertPlan); err != nil {
		return err
	}

	rows, err := inst.ExecuteAutoCommit(plan.NewSeqScan(schema, table.OID, nil))
	if err != nil {
		return err
	}
	for _, row := range rows {
		fmt.Println(row.Values(schema))
	}
	return nil
}
