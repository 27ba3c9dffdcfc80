package viz

import (
	"fmt"

	"go-ml.dev/pkg/diabetes/model"
	"go-ml.dev/pkg/diabetes/tables"
	"go-ml.dev/pkg/iokit"
	"go-ml.dev/pkg/zorros"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

/*
Package viz renders the diagnostic curves of a trained classifier as
PNG artifacts: ROC, precision-recall and the training history.
*/

func xys(x, y []float64) plotter.XYs {
	r := make(plotter.XYs, len(x))
	for i := range x {
		r[i].X, r[i].Y = x[i], y[i]
	}
	return r
}

func save(p *plot.Plot, output iokit.Output) error {
	wt, err := p.WriterTo(8*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return zorros.Trace(err)
	}
	wh, err := output.Create()
	if err != nil {
		return zorros.Trace(err)
	}
	defer wh.End()
	if _, err = wt.WriteTo(wh); err != nil {
		return zorros.Trace(err)
	}
	return wh.Commit()
}

/*
ROC renders the receiver operating characteristic with a random
classifier diagonal for reference
*/
func ROC(fpr, tpr []float64, auc float64, output iokit.Output) error {
	p, err := plot.New()
	if err != nil {
		return zorros.Trace(err)
	}
	p.Title.Text = fmt.Sprintf("ROC (AUC %.4f)", auc)
	p.X.Label.Text = "false positive rate"
	p.Y.Label.Text = "true positive rate"
	curve, err := plotter.NewLine(xys(fpr, tpr))
	if err != nil {
		return zorros.Trace(err)
	}
	diag, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return zorros.Trace(err)
	}
	diag.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(curve, diag, plotter.NewGrid())
	return save(p, output)
}

/*
PrecisionRecall renders the precision-recall curve
*/
func PrecisionRecall(precision, recall []float64, ap float64, output iokit.Output) error {
	p, err := plot.New()
	if err != nil {
		return zorros.Trace(err)
	}
	p.Title.Text = fmt.Sprintf("Precision-Recall (AP %.4f)", ap)
	p.X.Label.Text = "recall"
	p.Y.Label.Text = "precision"
	curve, err := plotter.NewLine(xys(recall, precision))
	if err != nil {
		return zorros.Trace(err)
	}
	p.Add(curve, plotter.NewGrid())
	return save(p, output)
}

/*
History renders the per-epoch train and validation values of one
history metric as paired curves
*/
func History(history *tables.Table, metric string, output iokit.Output) error {
	p, err := plot.New()
	if err != nil {
		return zorros.Trace(err)
	}
	p.Title.Text = "training " + metric
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = metric
	var train, test plotter.XYs
	iteration := history.Col(model.Iteration)
	subset := history.Col(model.Subset)
	values := history.Col(metric)
	for i := 0; i < history.Len(); i++ {
		xy := plotter.XY{X: float64(iteration.Float(i)), Y: float64(values.Float(i))}
		if subset.Float(i) == 0 {
			train = append(train, xy)
		} else {
			test = append(test, xy)
		}
	}
	trainLine, err := plotter.NewLine(train)
	if err != nil {
		return zorros.Trace(err)
	}
	testLine, err := plotter.NewLine(test)
	if err != nil {
		return zorros.Trace(err)
	}
	testLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(trainLine, testLine, plotter.NewGrid())
	p.Legend.Add("train", trainLine)
	p.Legend.Add("validation", testLine)
	return save(p, output)
}
