package features

// ColumnsVersion identifies the training-time column list below. Bump it
// whenever the list changes and retrain every pipeline.
const ColumnsVersion = "v1"

// ColumnsV1 is the exact ordered column set the pipelines were trained on:
// the 2016 Seattle benchmarking columns minus the two target columns
// (SiteEnergyUse(kBtu), TotalGHGEmissions).
var ColumnsV1 = []string{
	"OSEBuildingID",
	"DataYear",
	"BuildingType",
	"PrimaryPropertyType",
	"PropertyName",
	"Address",
	"City",
	"State",
	"ZipCode",
	"TaxParcelIdentificationNumber",
	"CouncilDistrictCode",
	"Neighborhood",
	"Latitude",
	"Longitude",
	"YearBuilt",
	"NumberofBuildings",
	"NumberofFloors",
	"PropertyGFATotal",
	"PropertyGFAParking",
	"PropertyGFABuilding(s)",
	"ListOfAllPropertyUseTypes",
	"LargestPropertyUseType",
	"LargestPropertyUseTypeGFA",
	"SecondLargestPropertyUseType",
	"SecondLargestPropertyUseTypeGFA",
	"ThirdLargestPropertyUseType",
	"ThirdLargestPropertyUseTypeGFA",
	"YearsENERGYSTARCertified",
	"ENERGYSTARScore",
	"SiteEUI(kBtu/sf)",
	"SiteEUIWN(kBtu/sf)",
	"SourceEUI(kBtu/sf)",
	"SourceEUIWN(kBtu/sf)",
	"SiteEnergyUseWN(kBtu)",
	"SteamUse(kBtu)",
	"Electricity(kWh)",
	"Electricity(kBtu)",
	"NaturalGas(therms)",
	"NaturalGas(kBtu)",
	"DefaultData",
	"Comments",
	"ComplianceStatus",
	"Outlier",
	"GHGEmissionsIntensity",
}

// categoricalColumns are lower-cased before scoring and never hold Absent;
// the trained encoder expects "" for an unknown level.
var categoricalColumns = map[string]bool{
	"PrimaryPropertyType": true,
	"Neighborhood":        true,
}
