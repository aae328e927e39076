package models

import "fmt"

func ExamplePolynomialRegression() {
	model, err := NewPolynomialRegression(nil)
	if err != nil {
		panic(err)
	}

	if err := model.Fit([]float64{0, 1, 2, 3}, []float64{1, 3, 5, 7}, 1); err != nil {
		panic(err)
	}

	coef, err := model.CoefString()
	if err != nil {
		panic(err)
	}
	fmt.Println(coef)

	x, y, r2, err := model.SampleCurve(1, 5)
	if err != nil {
		panic(err)
	}
	for i := range x {
		fmt.Printf("%.2f %.2f\n", x[i], y[i])
	}
	fmt.Printf("r2=%.4f\n", r2)
	// Output:
	// 1, 2
	// 0.00 1.00
	// 0.75 2.50
	// 1.50 4.00
	// 2.25 5.50
	// 3.00 7.00
	// r2=1.0000
}
