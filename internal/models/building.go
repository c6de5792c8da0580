package models

// BuildingRecord is a validated building submitted for prediction or for
// catalog submission. Field names follow the benchmarking dataset columns.
// Optional fields use pointers to distinguish between absent and zero.
type BuildingRecord struct {
	OSEBuildingID                   *int     `mapstructure:"OSEBuildingID" json:"OSEBuildingID,omitempty"`
	DataYear                        int      `mapstructure:"DataYear" json:"DataYear"`
	BuildingType                    string   `mapstructure:"BuildingType" json:"BuildingType"`
	PrimaryPropertyType             string   `mapstructure:"PrimaryPropertyType" json:"PrimaryPropertyType"`
	PropertyName                    *string  `mapstructure:"PropertyName" json:"PropertyName,omitempty"`
	Address                         *string  `mapstructure:"Address" json:"Address,omitempty"`
	ZipCode                         *string  `mapstructure:"ZipCode" json:"ZipCode,omitempty"`
	CouncilDistrictCode             *int     `mapstructure:"CouncilDistrictCode" json:"CouncilDistrictCode,omitempty"`
	Neighborhood                    *string  `mapstructure:"Neighborhood" json:"Neighborhood,omitempty"`
	YearBuilt                       *int     `mapstructure:"YearBuilt" json:"YearBuilt,omitempty"`
	NumberofBuildings               *int     `mapstructure:"NumberofBuildings" json:"NumberofBuildings,omitempty"`
	NumberofFloors                  *int     `mapstructure:"NumberofFloors" json:"NumberofFloors,omitempty"`
	PropertyGFATotal                *float64 `mapstructure:"PropertyGFATotal" json:"PropertyGFATotal,omitempty"`
	PropertyGFAParking              *float64 `mapstructure:"PropertyGFAParking" json:"PropertyGFAParking,omitempty"`
	ListOfAllPropertyUseTypes       *string  `mapstructure:"ListOfAllPropertyUseTypes" json:"ListOfAllPropertyUseTypes,omitempty"`
	LargestPropertyUseType          *string  `mapstructure:"LargestPropertyUseType" json:"LargestPropertyUseType,omitempty"`
	LargestPropertyUseTypeGFA       *float64 `mapstructure:"LargestPropertyUseTypeGFA" json:"LargestPropertyUseTypeGFA,omitempty"`
	SecondLargestPropertyUseType    *string  `mapstructure:"SecondLargestPropertyUseType" json:"SecondLargestPropertyUseType,omitempty"`
	SecondLargestPropertyUseTypeGFA *float64 `mapstructure:"SecondLargestPropertyUseTypeGFA" json:"SecondLargestPropertyUseTypeGFA,omitempty"`
	ThirdLargestPropertyUseType     *string  `mapstructure:"ThirdLargestPropertyUseType" json:"ThirdLargestPropertyUseType,omitempty"`
	ThirdLargestPropertyUseTypeGFA  *float64 `mapstructure:"ThirdLargestPropertyUseTypeGFA" json:"ThirdLargestPropertyUseTypeGFA,omitempty"`
	SteamUse                        *float64 `mapstructure:"SteamUse(kBtu)" json:"SteamUse(kBtu),omitempty"`
	NaturalGas                      *float64 `mapstructure:"NaturalGas(kBtu)" json:"NaturalGas(kBtu),omitempty"`
	Electricity                     *float64 `mapstructure:"Electricity(kBtu)" json:"Electricity(kBtu),omitempty"`
	ENERGYSTARScore                 *int     `mapstructure:"ENERGYSTARScore" json:"ENERGYSTARScore,omitempty"`
	GHGEmissionsIntensity           *float64 `mapstructure:"GHGEmissionsIntensity" json:"GHGEmissionsIntensity,omitempty"`
}

// Prediction holds the rounded model outputs. EmissionsGHG is only set when
// an emissions pipeline is configured.
type Prediction struct {
	EnergyKBtu   float64  `json:"consommation_energie_kBtu"`
	EmissionsGHG *float64 `json:"emission_ges,omitempty"`
}

// PredictionResult is the success payload of a prediction request.
// It is built per request and never persisted.
type PredictionResult struct {
	Status     string     `json:"status"`
	Message    string     `json:"message"`
	Prediction Prediction `json:"prediction"`
}
