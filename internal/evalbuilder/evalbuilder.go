package evalbuilder

import (
	"fmt"

	"github.com/kestrel-chess/kestrel/pkg/engine"
	material "github.com/kestrel-chess/kestrel/pkg/eval/material"
	tapered "github.com/kestrel-chess/kestrel/pkg/eval/tapered"
)

// Names lists the evaluators accepted by Get.
var Names = []string{"tapered", "material"}

// Get returns a constructor of the evaluator called key. An empty key
// selects the default evaluator.
func Get(key string) (func() engine.Evaluator, error) {
	switch key {
	case "", "tapered":
		return func() engine.Evaluator { return tapered.NewEvaluationService() }, nil
	case "material":
		return func() engine.Evaluator { return material.NewEvaluationService() }, nil
	}
	return nil, fmt.Errorf("bad eval %v", key)
}
