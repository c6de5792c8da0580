package validation

// Type is the semantic type a raw value must coerce to.
type Type int

const (
	TypeString Type = iota
	TypeInt
	TypeFloat
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "integer"
	case TypeFloat:
		return "float"
	default:
		return "string"
	}
}

// FieldSpec is one row of a constraint table. Rules is a validator tag
// evaluated against the coerced value; Message replaces the generic
// translated text when a rule fails.
type FieldSpec struct {
	Name     string
	Type     Type
	Required bool
	Rules    string
	Default  interface{}
	Message  string
}

// Schema is an ordered constraint table for one request variant.
type Schema struct {
	Name   string
	Fields []FieldSpec
}

func requiredString(name string) FieldSpec {
	return FieldSpec{Name: name, Type: TypeString, Required: true, Rules: "required,notblank", Message: name + " must not be empty"}
}

func optionalString(name string) FieldSpec {
	return FieldSpec{Name: name, Type: TypeString}
}

func optionalArea(name string) FieldSpec {
	return FieldSpec{Name: name, Type: TypeFloat, Rules: "gte=0"}
}

var (
	councilDistrict = FieldSpec{
		Name: "CouncilDistrictCode", Type: TypeInt, Required: true,
		Rules: "gte=1,lte=7", Message: "district must be between 1 and 7",
	}
	yearBuilt = FieldSpec{
		Name: "YearBuilt", Type: TypeInt, Required: true,
		Rules: "gte=1850,lte=2025", Message: "year built must be between 1850 and 2025",
	}
	numberOfBuildings = FieldSpec{
		Name: "NumberofBuildings", Type: TypeInt, Required: true,
		Rules: "gt=0", Message: "number of buildings must be greater than 0",
	}
	numberOfFloors = FieldSpec{
		Name: "NumberofFloors", Type: TypeInt, Required: true,
		Rules: "gt=0", Message: "number of floors must be greater than 0",
	}
	totalGFA = FieldSpec{
		Name: "PropertyGFATotal", Type: TypeFloat, Required: true,
		Rules: "gte=0", Message: "total GFA must be greater than or equal to 0",
	}
	parkingGFA = FieldSpec{
		Name: "PropertyGFAParking", Type: TypeFloat, Required: true,
		Rules: "gte=0", Message: "parking GFA must be greater than or equal to 0",
	}
	energyStarScore = FieldSpec{Name: "ENERGYSTARScore", Type: TypeInt, Rules: "gte=1,lte=100"}
)

func optional(spec FieldSpec) FieldSpec {
	spec.Required = false
	return spec
}

// PredictionSchema validates the body of a prediction request.
var PredictionSchema = Schema{
	Name: "prediction",
	Fields: []FieldSpec{
		{
			Name: "DataYear", Type: TypeInt, Rules: "gte=2016",
			Default: int64(2017), Message: "data year must be 2016 or later",
		},
		requiredString("BuildingType"),
		requiredString("PrimaryPropertyType"),
		requiredString("ZipCode"),
		councilDistrict,
		requiredString("Neighborhood"),
		yearBuilt,
		numberOfBuildings,
		numberOfFloors,
		totalGFA,
		parkingGFA,
		requiredString("ListOfAllPropertyUseTypes"),
		requiredString("LargestPropertyUseType"),
		optionalArea("LargestPropertyUseTypeGFA"),
		optionalString("SecondLargestPropertyUseType"),
		optionalArea("SecondLargestPropertyUseTypeGFA"),
		optionalString("ThirdLargestPropertyUseType"),
		optionalArea("ThirdLargestPropertyUseTypeGFA"),
		optionalArea("SteamUse(kBtu)"),
		optionalArea("NaturalGas(kBtu)"),
		optionalArea("Electricity(kBtu)"),
		energyStarScore,
	},
}

// SubmissionSchema validates a catalog submission.
var SubmissionSchema = Schema{
	Name: "submission",
	Fields: []FieldSpec{
		{
			Name: "OSEBuildingID", Type: TypeInt, Required: true,
			Rules: "gt=0", Message: "building id must be greater than 0",
		},
		{
			Name: "DataYear", Type: TypeInt, Required: true,
			Rules: "gte=2016,lte=2023", Message: "data year must be between 2016 and 2023",
		},
		requiredString("BuildingType"),
		requiredString("PrimaryPropertyType"),
		requiredString("PropertyName"),
		requiredString("Address"),
		optionalString("ZipCode"),
		optional(councilDistrict),
		optionalString("Neighborhood"),
		optional(yearBuilt),
		optional(numberOfFloors),
		optional(totalGFA),
		optional(parkingGFA),
		energyStarScore,
		optionalArea("GHGEmissionsIntensity"),
	},
}
