// Command schemagen writes the JSON schema of the Configuration kind.
//
// It is run by go generate from the api/v1beta1/configs directory.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/macropower/lv2lint/api/v1beta1/configs"
	"github.com/macropower/lv2lint/pkg/yaml"
)

var outFile = flag.String("o", "schema.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	gen := yaml.NewSchemaGenerator(configs.New(),
		"github.com/macropower/lv2lint/api/v1beta1/configs",
		"./",
	)

	jsData, err := gen.Generate()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
