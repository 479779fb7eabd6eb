package main

import (
	"context"
	"fmt"
	"os"

	"github.com/phravins/pyscaffold/internal/project"
	"github.com/phravins/pyscaffold/internal/scaffold"
	"github.com/phravins/pyscaffold/internal/secret"
)

// Renders every variant in memory and checks no placeholder survives.
func main() {
	fmt.Println("Verifying embedded templates...")

	tests := []struct {
		name string
		d    project.Descriptor
	}{
		{"Django standard", project.Descriptor{Name: "shop", Flavor: project.FlavorDjango, Apps: []string{"catalog"}, Database: true}},
		{"Django API + auth", project.Descriptor{Name: "shop", Flavor: project.FlavorDjango, Apps: []string{"catalog"}, API: true, Auth: true, Database: true}},
		{"Django microservices", project.Descriptor{Name: "shop", Flavor: project.FlavorDjango, Apps: []string{"catalog", "orders"}, Layout: project.LayoutMicroservices, Auth: true, Database: true}},
		{"FastAPI base", project.Descriptor{Name: "api", Flavor: project.FlavorFastAPI, Database: true}},
		{"FastAPI no db", project.Descriptor{Name: "api", Flavor: project.FlavorFastAPI}},
		{"FastAPI auth + modules", project.Descriptor{Name: "api", Flavor: project.FlavorFastAPI, Apps: []string{"book", "order_item"}, Auth: true, Database: true}},
	}

	failed := false
	for _, tt := range tests {
		fmt.Printf("Test: %s... ", tt.name)
		res, err := project.Generate(context.Background(), tt.d, project.Options{
			Dir:    os.TempDir(),
			Secret: secret.NewRandSource(),
			DryRun: true,
		})
		if err != nil {
			fmt.Printf("FAILED: %v\n", err)
			failed = true
			continue
		}

		var bad []string
		for _, f := range res.Files {
			if left := scaffold.Leftovers(f.Content); len(left) > 0 {
				bad = append(bad, fmt.Sprintf("%s %v", f.Path, left))
			}
		}
		if len(bad) > 0 {
			fmt.Printf("FAILED (unresolved): %v\n", bad)
			failed = true
			continue
		}
		fmt.Printf("PASSED (%d files)\n", len(res.Files))
	}

	if failed {
		os.Exit(1)
	}
}
