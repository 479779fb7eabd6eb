package main

import (
	"fmt"
	"os"

	"github.com/phravins/pyscaffold/internal/config"
	"github.com/phravins/pyscaffold/pkg/utils"
)

// Clears a stale python_path and puts secret_source back to python, for when
// ~/.pyscaffold.yaml points at an interpreter that no longer exists.
func main() {
	if _, err := config.LoadConfig(); err != nil {
		fail("reading config", err)
	}
	if err := config.Set(config.KeyPythonPath, ""); err != nil {
		fail("clearing python_path", err)
	}
	if err := config.Set(config.KeySecretSource, "python"); err != nil {
		fail("resetting secret_source", err)
	}
	if err := config.Write(); err != nil {
		fail("writing config", err)
	}
	utils.PrintSuccess("Successfully cleared python_path in .pyscaffold.yaml")
}

func fail(what string, err error) {
	utils.PrintError(fmt.Sprintf("Error %s: %v", what, err))
	os.Exit(1)
}
