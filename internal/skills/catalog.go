package skills

// baseSkills lists every free-response skill. Multiple-choice variants are
// derived from these at init.
var baseSkills = []Skill{
	{
		ID:          LinearEquation,
		Name:        "Linear Equations",
		Description: "Solve a(x + b) = c for an integer x",
		Domain:      DomainAlgebra,
		Shape:       ShapeScalar,
		Keywords:    []string{"distribute", "isolate", "linear"},
		Explanation: Explanation{
			Concept:       "Linear equation; distribute and isolate x",
			Plan:          "Expand, move constants, divide to isolate x",
			QuickCheck:    "Plug back to verify LHS = RHS",
			CommonMistake: "Forgetting to distribute to all terms",
		},
	},
	{
		ID:          TwoStepEquation,
		Name:        "Two-Step Equations",
		Description: "Solve ax + b = c for an integer x",
		Domain:      DomainAlgebra,
		Shape:       ShapeScalar,
		Keywords:    []string{"inverse operations", "linear"},
		Explanation: Explanation{
			Concept:       "Two-step linear equation",
			Plan:          "Undo addition/subtraction, then undo multiplication",
			QuickCheck:    "Substitute x and check equality",
			CommonMistake: "Dividing before moving the constant term",
		},
	},
	{
		ID:          LinearSystem2x2,
		Name:        "Systems of Two Equations",
		Description: "Solve a 2x2 linear system with an integer solution",
		Domain:      DomainAlgebra,
		Shape:       ShapePair,
		Keywords:    []string{"elimination", "substitution", "Cramer's rule"},
		Explanation: Explanation{
			Concept:       "2×2 linear system",
			Plan:          "Eliminate one variable, then back-substitute",
			QuickCheck:    "Plug (x, y) into both equations",
			CommonMistake: "Adding equations with mismatched coefficients",
		},
	},
	{
		ID:          LinearSystem3x3,
		Name:        "Systems of Three Equations",
		Description: "Solve a 3x3 linear system with an integer solution",
		Domain:      DomainAdvanced,
		Shape:       ShapeTriple,
		Keywords:    []string{"elimination", "matrix", "determinant"},
		Explanation: Explanation{
			Concept:       "3×3 linear system",
			Plan:          "Eliminate stepwise or use matrix methods",
			QuickCheck:    "Verify all three equations hold",
			CommonMistake: "Arithmetic errors during elimination",
		},
	},
	{
		ID:          QuadraticRoots,
		Name:        "Quadratic Roots",
		Description: "Find both integer roots of a factorable quadratic",
		Domain:      DomainAdvanced,
		Shape:       ShapePair,
		Keywords:    []string{"factoring", "zero product"},
		Explanation: Explanation{
			Concept:       "Quadratic roots via factoring",
			Plan:          "Factor, set each factor to zero",
			QuickCheck:    "Each root makes a factor zero",
			CommonMistake: "Missing a root or mixing signs",
		},
	},
	{
		ID:          ExponentialSolve,
		Name:        "Exponential Equations",
		Description: "Solve a·b^x = c for an integer exponent",
		Domain:      DomainAdvanced,
		Shape:       ShapeScalar,
		Keywords:    []string{"exponent", "logarithm"},
		Explanation: Explanation{
			Concept:       "Exponential equation; isolate and take logarithm",
			Plan:          "Isolate b^x, then apply log base b",
			QuickCheck:    "Check a·b^x equals RHS",
			CommonMistake: "Taking logs before isolating the exponential",
		},
	},
	{
		ID:          RationalEquation,
		Name:        "Rational Equations",
		Description: "Solve a/(x + b) = c for an integer x",
		Domain:      DomainAdvanced,
		Shape:       ShapeScalar,
		Keywords:    []string{"denominator", "cross-multiply", "extraneous"},
		Explanation: Explanation{
			Concept:       "Rational equation; clear denominators",
			Plan:          "Multiply by LCD, solve resulting equation",
			QuickCheck:    "Plug solution; discard extraneous",
			CommonMistake: "Not multiplying every term by the LCD",
		},
	},
	{
		ID:          Proportion,
		Name:        "Proportions",
		Description: "Solve a/b = x/c by cross-multiplication",
		Domain:      DomainPSD,
		Shape:       ShapeScalar,
		Keywords:    []string{"ratio", "cross-multiply"},
		Explanation: Explanation{
			Concept:       "Proportion; cross-multiplication",
			Plan:          "Cross-multiply, then isolate",
			QuickCheck:    "Verify a/b = x/c",
			CommonMistake: "Multiplying only one side",
		},
	},
	{
		ID:          UnitRate,
		Name:        "Unit Rates",
		Description: "Find the cost of one item from a total price",
		Domain:      DomainPSD,
		Shape:       ShapeScalar,
		Keywords:    []string{"rate", "per unit", "division"},
		Explanation: Explanation{
			Concept:       "Unit rate (cost per item)",
			Plan:          "Divide total cost by number of items",
			QuickCheck:    "Sanity-check magnitude",
			CommonMistake: "Dividing items by cost",
		},
	},
	{
		ID:          PythagoreanHypotenuse,
		Name:        "Pythagorean Theorem: Hypotenuse",
		Description: "Find the hypotenuse of a right triangle from its legs",
		Domain:      DomainGeometry,
		Shape:       ShapeScalar,
		Keywords:    []string{"right triangle", "hypotenuse"},
		Explanation: Explanation{
			Concept:       "Right triangle; Pythagorean theorem",
			Plan:          "Square legs, add, square root",
			QuickCheck:    "a^2 + b^2 = c^2",
			CommonMistake: "Adding legs without squaring",
		},
	},
	{
		ID:          PythagoreanLeg,
		Name:        "Pythagorean Theorem: Leg",
		Description: "Find a missing leg from the hypotenuse and the other leg",
		Domain:      DomainGeometry,
		Shape:       ShapeScalar,
		Keywords:    []string{"right triangle", "leg"},
		Explanation: Explanation{
			Concept:       "Right triangle; c^2 - a^2 = b^2",
			Plan:          "Square hypotenuse and leg, subtract, root",
			QuickCheck:    "c^2 - known^2 = leg^2",
			CommonMistake: "Subtracting in wrong order",
		},
	},
	{
		ID:          RectangleArea,
		Name:        "Rectangle Area",
		Description: "Compute the area of a rectangle",
		Domain:      DomainGeometry,
		Shape:       ShapeScalar,
		Keywords:    []string{"area", "rectangle"},
		Explanation: Explanation{
			Concept:       "Area of rectangle",
			Plan:          "Multiply width by height",
			QuickCheck:    "Units square; w×h",
			CommonMistake: "Adding sides instead of multiplying",
		},
	},
	{
		ID:          RectanglePerimeter,
		Name:        "Rectangle Perimeter",
		Description: "Compute the perimeter of a rectangle",
		Domain:      DomainGeometry,
		Shape:       ShapeScalar,
		Keywords:    []string{"perimeter", "rectangle"},
		Explanation: Explanation{
			Concept:       "Perimeter of rectangle",
			Plan:          "Add width and height, ×2",
			QuickCheck:    "Units linear; 2(w+h)",
			CommonMistake: "Using area formula",
		},
	},
	{
		ID:          TriangleAngle,
		Name:        "Triangle Angles",
		Description: "Find the missing interior angle of a triangle",
		Domain:      DomainGeometry,
		Shape:       ShapeScalar,
		Keywords:    []string{"angle sum", "triangle"},
		Explanation: Explanation{
			Concept:       "Triangle interior angles sum to 180°",
			Plan:          "Subtract known angles from 180°",
			QuickCheck:    "A+B+C=180°",
			CommonMistake: "Adding instead of subtracting",
		},
	},
}
