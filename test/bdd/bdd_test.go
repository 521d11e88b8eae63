package bdd

import (
	"os"
	"testing"

	"github.com/andrescamacho/amalgam-go/test/bdd/steps"
	"github.com/andrescamacho/amalgam-go/test/helpers"
	"github.com/cucumber/godog"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/domain", "features/application"},
			Strict:   true,
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	// Domain: turn resolution on a hand-built board
	steps.InitializeGameEngineScenario(sc)

	// Application: turns through the mediator into the ledger
	steps.InitializeTurnLedgerScenario(sc)
}

func TestMain(m *testing.M) {
	// One migrated in-memory database shared by every scenario
	if err := helpers.InitializeSharedTestDB(); err != nil {
		panic("Failed to initialize shared test database: " + err.Error())
	}

	code := m.Run()
	helpers.CloseSharedTestDB()
	os.Exit(code)
}
