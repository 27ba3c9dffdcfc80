package main

import (
	"fmt"
	"os"

	"go-ml.dev/pkg/diabetes/brfss"
	"go-ml.dev/pkg/diabetes/fu"
	"go-ml.dev/pkg/diabetes/journal"
	"go-ml.dev/pkg/diabetes/metrics"
	"go-ml.dev/pkg/diabetes/model"
	"go-ml.dev/pkg/diabetes/nn"
	"go-ml.dev/pkg/diabetes/preprocess"
	"go-ml.dev/pkg/diabetes/tabnet"
	"go-ml.dev/pkg/diabetes/viz"
	"go-ml.dev/pkg/iokit"
	"go-ml.dev/pkg/zorros"
)

// Attention-based tabular diabetes classifier over the BRFSS survey,
// trained twice: on the full feature set and on the top 10 features
// by learned importance.

const (
	seed            = 1
	testRatio       = 0.25
	validationRatio = 0.25
	cutoff          = 0.6
	patience        = 10
	epochs          = 50
	topFeatures     = 10
)

func main() {
	source := brfss.LuckyLoad()
	ds := model.Dataset{
		Source:   source,
		Label:    brfss.Label,
		Features: source.Except(brfss.Label).Names(),
	}

	// the scaler is fit on the whole table before splitting
	scaler := (&preprocess.MinMaxScaler{Features: ds.Features}).Fit(ds.Source)
	ds.Source = scaler.LuckyTransform(ds.Source)
	parts := preprocess.Partition(ds, testRatio, validationRatio, seed)

	net := run("tabnet-full", ds, parts)

	ranking := net.Importances()
	fmt.Println("feature importance")
	tabnet.RenderRanking(os.Stdout, ranking)

	top := tabnet.TopFeatures(ranking, topFeatures)
	run("tabnet-top10", ds.Select(top), parts)

	fmt.Printf("artifacts are in %v\n", fu.CachePath(""))
}

func run(name string, ds model.Dataset, parts model.Partitions) *tabnet.TabNet {
	net := &tabnet.TabNet{
		Width:        16,
		Steps:        5,
		Relaxation:   1.5,
		Sparsity:     0.001,
		BatchSize:    1024,
		VirtualBatch: 256,
		Schedule:     nn.StepDecay{Initial: 0.02, Factor: 0.9, Every: 10},
		Seed:         seed,
	}
	report := net.Feed(ds, parts).LuckyTrain(model.Training{
		Epochs: epochs,
		Monitors: []model.Monitor{
			{Metric: model.Accuracy, Patience: patience},
		},
		Verbose: func(s string) { fmt.Println(name + " " + s) },
	})

	probs := net.PredictProba(parts.Test)
	labels := parts.Test.Labels(ds.Label)
	metrics.Report(labels, probs, cutoff).Render(os.Stdout)

	fpr, tpr, auc := metrics.ROC(labels, probs)
	precision, recall, ap := metrics.PrecisionRecall(labels, probs)
	fmt.Printf("%v: test AUC %.4f, average precision %.4f\n", name, auc, ap)

	luck(viz.ROC(fpr, tpr, auc, artifact(name, "roc.png")))
	luck(viz.PrecisionRecall(precision, recall, ap, artifact(name, "pr.png")))

	j, err := journal.Open(fu.CachePath("runs.db"))
	luck(err)
	defer j.Close()
	luck(j.LogHistory(name, report.History))
	return net
}

func artifact(name, suffix string) iokit.Output {
	return iokit.File(fu.CachePath(name + "-" + suffix))
}

func luck(err error) {
	if err != nil {
		panic(zorros.Panic(err))
	}
}
