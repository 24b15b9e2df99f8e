package skills

// Domain groups skills the way the test sections do.
type Domain string

const (
	DomainAlgebra  Domain = "Algebra"
	DomainAdvanced Domain = "Advanced"
	DomainPSD      Domain = "PSD"
	DomainGeometry Domain = "Geometry"
)

// AllDomains returns all domains in display order.
func AllDomains() []Domain {
	return []Domain{DomainAlgebra, DomainAdvanced, DomainPSD, DomainGeometry}
}

// DomainDisplayName returns a human-readable name for a domain.
func DomainDisplayName(d Domain) string {
	switch d {
	case DomainAlgebra:
		return "Algebra"
	case DomainAdvanced:
		return "Advanced Math"
	case DomainPSD:
		return "Problem Solving & Data Analysis"
	case DomainGeometry:
		return "Geometry & Trigonometry"
	default:
		return string(d)
	}
}

// ID identifies a skill, e.g. "linear_equation" or "linear_equation_mc".
type ID string

const (
	LinearEquation        ID = "linear_equation"
	TwoStepEquation       ID = "two_step_equation"
	LinearSystem2x2       ID = "linear_system_2x2"
	LinearSystem3x3       ID = "linear_system_3x3"
	QuadraticRoots        ID = "quadratic_roots"
	ExponentialSolve      ID = "exponential_solve"
	RationalEquation      ID = "rational_equation"
	Proportion            ID = "proportion"
	UnitRate              ID = "unit_rate"
	PythagoreanHypotenuse ID = "pythagorean_hypotenuse"
	PythagoreanLeg        ID = "pythagorean_leg"
	RectangleArea         ID = "rectangle_area"
	RectanglePerimeter    ID = "rectangle_perimeter"
	TriangleAngle         ID = "triangle_angle"
)

// MCSuffix marks the multiple-choice variant of a base skill.
const MCSuffix = "_mc"

// Shape is the structure of a skill's canonical answer.
type Shape int

const (
	ShapeScalar Shape = iota // single number
	ShapePair                // ordered (x, y) or root pair
	ShapeTriple              // ordered (x, y, z)
)

// Arity returns how many numeric components an answer of this shape has.
func (s Shape) Arity() int {
	switch s {
	case ShapePair:
		return 2
	case ShapeTriple:
		return 3
	default:
		return 1
	}
}

func (s Shape) String() string {
	switch s {
	case ShapePair:
		return "pair"
	case ShapeTriple:
		return "triple"
	default:
		return "scalar"
	}
}

// Explanation is the short tutoring card attached to every item of a skill.
type Explanation struct {
	Concept       string `json:"concept"`
	Plan          string `json:"plan"`
	QuickCheck    string `json:"quick_check"`
	CommonMistake string `json:"common_mistake"`
}

// Skill is a single practice skill in the catalog.
type Skill struct {
	ID          ID
	Name        string
	Description string
	Domain      Domain
	Shape       Shape
	Keywords    []string
	Explanation Explanation

	// MC is true for the multiple-choice variant of a base skill.
	MC bool
}

// Base returns the ID of the free-response skill this one derives from.
func (s Skill) Base() ID {
	return BaseOf(s.ID)
}
