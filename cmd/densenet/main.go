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
	"go-ml.dev/pkg/diabetes/viz"
	"go-ml.dev/pkg/iokit"
	"go-ml.dev/pkg/zorros"
)

// Dense feed-forward diabetes classifier over the BRFSS survey with
// SMOTE/Tomek rebalancing and a cross-entropy/focal blended loss.

const (
	seed            = 1
	testRatio       = 0.25
	validationRatio = 0.25 // of the post-test remainder
	class0Boost     = 1.5  // manual adjustment of the balanced weights
	class1Damp      = 0.5
	focalBlend      = 0.5
	patience        = 5
	epochs          = 50
	batchSize       = 128
	runName         = "densenet"
)

var cutoffs = []float64{0.7, 0.8}

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

	// the balanced weights come from the pre-resampling labels
	weights := preprocess.BalancedWeights(parts.Train.Labels(ds.Label)).
		Scale(0, class0Boost).
		Scale(1, class1Damp)

	resampler := preprocess.SMOTETomek{Seed: seed}
	parts.Train = resampler.LuckyResample(parts.Train, ds.Label, ds.Features)
	// the validation cut is resampled the same way as the training cut
	parts.Validation = resampler.LuckyResample(parts.Validation, ds.Label, ds.Features)

	net := &nn.FeedForward{
		Hidden:       []int{16, 32},
		Loss:         nn.BlendedFocal{Alpha: 0.25, Gamma: 2, Weight: focalBlend},
		ClassWeights: weights,
		BatchSize:    batchSize,
		Schedule:     nn.ConstantThenExponential{Initial: 0.001, Decay: 0.1, After: 10},
		Seed:         seed,
	}

	report := net.Feed(ds, parts).LuckyTrain(model.Training{
		Epochs: epochs,
		Monitors: []model.Monitor{
			{Metric: model.Recall, Patience: patience},
			{Metric: model.Loss, Patience: patience, Less: true},
			{Metric: model.Accuracy, Patience: patience},
		},
		Verbose: func(s string) { fmt.Println(s) },
	})

	probs := net.PredictProba(parts.Test)
	labels := parts.Test.Labels(ds.Label)
	for _, cutoff := range cutoffs {
		metrics.Report(labels, probs, cutoff).Render(os.Stdout)
	}

	fpr, tpr, auc := metrics.ROC(labels, probs)
	precision, recall, ap := metrics.PrecisionRecall(labels, probs)
	fmt.Printf("test AUC %.4f, average precision %.4f\n", auc, ap)

	luck(viz.ROC(fpr, tpr, auc, artifact("roc.png")))
	luck(viz.PrecisionRecall(precision, recall, ap, artifact("pr.png")))
	luck(viz.History(report.History, model.Loss, artifact("loss.png")))
	luck(viz.History(report.History, model.Accuracy, artifact("accuracy.png")))

	j, err := journal.Open(fu.CachePath("runs.db"))
	luck(err)
	defer j.Close()
	luck(j.LogHistory(runName, report.History))

	fmt.Printf("artifacts are in %v\n", fu.CachePath(""))
}

func artifact(name string) iokit.Output {
	return iokit.File(fu.CachePath(runName + "-" + name))
}

func luck(err error) {
	if err != nil {
		panic(zorros.Panic(err))
	}
}
