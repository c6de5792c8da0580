package validation

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validPrediction mirrors a real downtown office building request.
func validPrediction() map[string]interface{} {
	return map[string]interface{}{
		"DataYear":                     float64(2016),
		"BuildingType":                 "Commercial",
		"PrimaryPropertyType":          "Office",
		"SecondLargestPropertyUseType": "Other",
		"ThirdLargestPropertyUseType":  nil,
		"ZipCode":                      "98101",
		"CouncilDistrictCode":          float64(7),
		"Neighborhood":                 "DOWNTOWN",
		"YearBuilt":                    float64(1980),
		"NumberofBuildings":            float64(1),
		"NumberofFloors":               float64(10),
		"PropertyGFATotal":             150000.0,
		"PropertyGFAParking":           5000.0,
		"ListOfAllPropertyUseTypes":    "Office, Other",
		"LargestPropertyUseType":       "Office",
	}
}

func validSubmission() map[string]interface{} {
	return map[string]interface{}{
		"OSEBuildingID":         float64(12345),
		"DataYear":              float64(2023),
		"BuildingType":          "Nonresidential",
		"PrimaryPropertyType":   "Office",
		"PropertyName":          "Test Building",
		"Address":               "456 Test St",
		"GHGEmissionsIntensity": 10.5,
	}
}

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New()
	require.NoError(t, err)
	return v
}

func requireValidationError(t *testing.T, err error) *Error {
	t.Helper()
	require.Error(t, err)
	var verr *Error
	require.True(t, errors.As(err, &verr), "expected *validation.Error, got %T", err)
	return verr
}

func findField(verr *Error, field string) (FieldError, bool) {
	for _, f := range verr.Fields {
		if f.Field == field {
			return f, true
		}
	}
	return FieldError{}, false
}

func TestValidate_ValidPrediction(t *testing.T) {
	v := newValidator(t)

	result, err := v.Validate(PredictionSchema, validPrediction())
	require.NoError(t, err)

	assert.Equal(t, 2016, result.Record.DataYear)
	assert.Equal(t, "Office", result.Record.PrimaryPropertyType)
	require.NotNil(t, result.Record.CouncilDistrictCode)
	assert.Equal(t, 7, *result.Record.CouncilDistrictCode)
	require.NotNil(t, result.Record.ZipCode)
	assert.Equal(t, "98101", *result.Record.ZipCode)
	assert.Nil(t, result.Record.ThirdLargestPropertyUseType)
	assert.Equal(t, int64(10), result.Values["NumberofFloors"])
	assert.Equal(t, 150000.0, result.Values["PropertyGFATotal"])
	assert.NotContains(t, result.Values, "ThirdLargestPropertyUseType")
}

func TestValidate_MissingRequiredField(t *testing.T) {
	v := newValidator(t)

	for _, spec := range PredictionSchema.Fields {
		if !spec.Required {
			continue
		}
		t.Run(spec.Name, func(t *testing.T) {
			raw := validPrediction()
			delete(raw, spec.Name)

			_, err := v.Validate(PredictionSchema, raw)
			verr := requireValidationError(t, err)

			fe, ok := findField(verr, spec.Name)
			require.True(t, ok, "expected error entry for %s", spec.Name)
			assert.Equal(t, KindFieldRequired, fe.Kind)
			assert.Equal(t, "Field required", fe.Message)
			assert.Len(t, verr.Fields, 1)
		})
	}
}

func TestValidate_MissingBuildingTypeOnSubmission(t *testing.T) {
	v := newValidator(t)
	raw := validSubmission()
	delete(raw, "BuildingType")

	_, err := v.Validate(SubmissionSchema, raw)
	verr := requireValidationError(t, err)

	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "BuildingType", verr.Fields[0].Field)
	assert.Equal(t, "Field required", verr.Fields[0].Message)
}

func TestValidate_CouncilDistrictBounds(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		value    float64
		accepted bool
	}{
		{0, false},
		{1, true},
		{4, true},
		{7, true},
		{8, false},
		{99, false},
	}

	for _, tt := range tests {
		raw := validPrediction()
		raw["CouncilDistrictCode"] = tt.value

		_, err := v.Validate(PredictionSchema, raw)
		if tt.accepted {
			assert.NoError(t, err, "district %v should be accepted", tt.value)
			continue
		}
		verr := requireValidationError(t, err)
		fe, ok := findField(verr, "CouncilDistrictCode")
		require.True(t, ok)
		assert.Equal(t, KindValidation, fe.Kind)
		assert.Equal(t, "district must be between 1 and 7", fe.Message)
	}
}

func TestValidate_YearBuiltBounds(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		value    float64
		accepted bool
	}{
		{1849, false},
		{1850, true},
		{2025, true},
		{2026, false},
	}

	for _, tt := range tests {
		raw := validPrediction()
		raw["YearBuilt"] = tt.value

		_, err := v.Validate(PredictionSchema, raw)
		if tt.accepted {
			assert.NoError(t, err, "year %v should be accepted", tt.value)
			continue
		}
		verr := requireValidationError(t, err)
		fe, ok := findField(verr, "YearBuilt")
		require.True(t, ok)
		assert.Equal(t, KindValidation, fe.Kind)
	}
}

func TestValidate_PositiveCountsAndAreas(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		field string
		value interface{}
	}{
		{"NumberofFloors", float64(0)},
		{"NumberofBuildings", float64(-1)},
		{"PropertyGFATotal", -100.0},
		{"PropertyGFAParking", -50.0},
		{"LargestPropertyUseTypeGFA", -1.0},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			raw := validPrediction()
			raw[tt.field] = tt.value

			_, err := v.Validate(PredictionSchema, raw)
			verr := requireValidationError(t, err)

			fe, ok := findField(verr, tt.field)
			require.True(t, ok)
			assert.Equal(t, KindValidation, fe.Kind)
			assert.Contains(t, verr.ByCategory(), CategoryValidation)
		})
	}
}

func TestValidate_TranslatedMessageNamesField(t *testing.T) {
	v := newValidator(t)
	raw := validPrediction()
	raw["ENERGYSTARScore"] = float64(0)

	_, err := v.Validate(PredictionSchema, raw)
	verr := requireValidationError(t, err)

	fe, ok := findField(verr, "ENERGYSTARScore")
	require.True(t, ok)
	assert.Contains(t, fe.Message, "ENERGYSTARScore")
	assert.Contains(t, fe.Message, "1")
}

func TestValidate_ParkingExceedsTotalIsCoherenceError(t *testing.T) {
	v := newValidator(t)
	raw := validPrediction()
	raw["PropertyGFATotal"] = 1000.0
	raw["PropertyGFAParking"] = 5000.0

	_, err := v.Validate(PredictionSchema, raw)
	verr := requireValidationError(t, err)

	require.Len(t, verr.Fields, 1)
	assert.Equal(t, KindCoherence, verr.Fields[0].Kind)
	assert.Equal(t, "PropertyGFAParking", verr.Fields[0].Field)
	assert.Contains(t, verr.Fields[0].Message, "cannot exceed")
	assert.True(t, verr.HasKind(KindCoherence))

	grouped := verr.ByCategory()
	assert.Len(t, grouped[CategoryCoherence], 1)
	assert.NotContains(t, grouped, CategoryValidation)
}

func TestValidate_ParkingEqualToTotalIsAccepted(t *testing.T) {
	v := newValidator(t)
	raw := validPrediction()
	raw["PropertyGFATotal"] = 5000.0
	raw["PropertyGFAParking"] = 5000.0

	_, err := v.Validate(PredictionSchema, raw)
	assert.NoError(t, err)
}

func TestValidate_CoherenceSkippedWhenFieldsInvalid(t *testing.T) {
	v := newValidator(t)
	raw := validPrediction()
	raw["PropertyGFATotal"] = 1000.0
	raw["PropertyGFAParking"] = 5000.0
	raw["CouncilDistrictCode"] = float64(8)

	_, err := v.Validate(PredictionSchema, raw)
	verr := requireValidationError(t, err)

	assert.False(t, verr.HasKind(KindCoherence))
	assert.True(t, verr.HasKind(KindValidation))
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	v := newValidator(t)
	raw := validPrediction()
	delete(raw, "BuildingType")
	raw["CouncilDistrictCode"] = float64(0)
	raw["YearBuilt"] = "nineteen-eighty"
	raw["ZipCode"] = float64(98101)

	_, err := v.Validate(PredictionSchema, raw)
	verr := requireValidationError(t, err)

	require.Len(t, verr.Fields, 4)
	kinds := map[string]Kind{}
	for _, f := range verr.Fields {
		kinds[f.Field] = f.Kind
	}
	assert.Equal(t, KindFieldRequired, kinds["BuildingType"])
	assert.Equal(t, KindValidation, kinds["CouncilDistrictCode"])
	assert.Equal(t, KindTypeError, kinds["YearBuilt"])
	assert.Equal(t, KindTypeError, kinds["ZipCode"])
}

func TestValidate_TypeCoercion(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name    string
		field   string
		value   interface{}
		wantErr bool
		want    interface{}
	}{
		{name: "numeric string to int", field: "NumberofFloors", value: "12", want: int64(12)},
		{name: "integral float to int", field: "NumberofFloors", value: 12.0, want: int64(12)},
		{name: "json number to int", field: "NumberofFloors", value: json.Number("3"), want: int64(3)},
		{name: "fractional float to int", field: "NumberofFloors", value: 12.5, wantErr: true},
		{name: "bool to int", field: "NumberofFloors", value: true, wantErr: true},
		{name: "float above int64 range", field: "NumberofFloors", value: 9223372036854775808.0, wantErr: true},
		{name: "json number above int64 range", field: "NumberofFloors", value: json.Number("9223372036854775808.0"), wantErr: true},
		{name: "numeric string to float", field: "PropertyGFATotal", value: "150000.5", want: 150000.5},
		{name: "json number to float", field: "PropertyGFATotal", value: json.Number("42.25"), want: 42.25},
		{name: "NaN string to float", field: "PropertyGFATotal", value: "NaN", wantErr: true},
		{name: "object to string", field: "Neighborhood", value: map[string]interface{}{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validPrediction()
			raw[tt.field] = tt.value

			result, err := v.Validate(PredictionSchema, raw)
			if tt.wantErr {
				verr := requireValidationError(t, err)
				fe, ok := findField(verr, tt.field)
				require.True(t, ok)
				assert.Equal(t, KindTypeError, fe.Kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Values[tt.field])
		})
	}
}

func TestIntegral(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want int64
		ok   bool
	}{
		{name: "whole", in: 12, want: 12, ok: true},
		{name: "negative whole", in: -3, want: -3, ok: true},
		{name: "fraction", in: 1.5},
		{name: "two to the 63", in: math.Pow(2, 63)},
		{name: "minus two to the 63", in: -math.Pow(2, 63), want: math.MinInt64, ok: true},
		{name: "below int64 range", in: -math.Pow(2, 64)},
		{name: "NaN", in: math.NaN()},
		{name: "infinity", in: math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := integral(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_OptionalFields(t *testing.T) {
	v := newValidator(t)

	t.Run("absent and null are accepted", func(t *testing.T) {
		raw := validPrediction()
		raw["SecondLargestPropertyUseType"] = nil
		raw["ENERGYSTARScore"] = nil

		_, err := v.Validate(PredictionSchema, raw)
		assert.NoError(t, err)
	})

	t.Run("present values are still checked", func(t *testing.T) {
		raw := validPrediction()
		raw["SteamUse(kBtu)"] = -1.0

		_, err := v.Validate(PredictionSchema, raw)
		verr := requireValidationError(t, err)
		_, ok := findField(verr, "SteamUse(kBtu)")
		assert.True(t, ok)
	})

	t.Run("data year defaults to 2017", func(t *testing.T) {
		raw := validPrediction()
		delete(raw, "DataYear")

		result, err := v.Validate(PredictionSchema, raw)
		require.NoError(t, err)
		assert.Equal(t, 2017, result.Record.DataYear)
		assert.Equal(t, int64(2017), result.Values["DataYear"])
	})

	t.Run("data year before 2016 is rejected", func(t *testing.T) {
		raw := validPrediction()
		raw["DataYear"] = float64(2015)

		_, err := v.Validate(PredictionSchema, raw)
		verr := requireValidationError(t, err)
		_, ok := findField(verr, "DataYear")
		assert.True(t, ok)
	})
}

func TestValidate_EmptyRequiredString(t *testing.T) {
	v := newValidator(t)

	for _, value := range []string{"", "   ", "\t\n"} {
		t.Run(strconv.Quote(value), func(t *testing.T) {
			raw := validPrediction()
			raw["Neighborhood"] = value

			_, err := v.Validate(PredictionSchema, raw)
			verr := requireValidationError(t, err)

			fe, ok := findField(verr, "Neighborhood")
			require.True(t, ok)
			assert.Equal(t, KindValidation, fe.Kind)
			assert.Equal(t, "Neighborhood must not be empty", fe.Message)
		})
	}

	t.Run("surrounding spaces are kept", func(t *testing.T) {
		raw := validPrediction()
		raw["Neighborhood"] = " DOWNTOWN "

		result, err := v.Validate(PredictionSchema, raw)
		require.NoError(t, err)
		assert.Equal(t, " DOWNTOWN ", result.Values["Neighborhood"])
	})
}

func TestValidate_UnknownKeysIgnored(t *testing.T) {
	v := newValidator(t)
	raw := validPrediction()
	raw["SiteEUI(kBtu/sf)"] = "not a number"
	raw["favourite_colour"] = "green"

	result, err := v.Validate(PredictionSchema, raw)
	require.NoError(t, err)
	assert.NotContains(t, result.Values, "favourite_colour")
	assert.NotContains(t, result.Values, "SiteEUI(kBtu/sf)")
}

func TestValidate_SubmissionDataYearBounds(t *testing.T) {
	v := newValidator(t)

	for _, year := range []float64{2015, 2024} {
		raw := validSubmission()
		raw["DataYear"] = year

		_, err := v.Validate(SubmissionSchema, raw)
		verr := requireValidationError(t, err)
		fe, ok := findField(verr, "DataYear")
		require.True(t, ok)
		assert.Equal(t, "data year must be between 2016 and 2023", fe.Message)
	}

	result, err := v.Validate(SubmissionSchema, validSubmission())
	require.NoError(t, err)
	require.NotNil(t, result.Record.OSEBuildingID)
	assert.Equal(t, 12345, *result.Record.OSEBuildingID)
}

func TestValidate_NilBodyReportsAllRequired(t *testing.T) {
	v := newValidator(t)

	_, err := v.Validate(SubmissionSchema, nil)
	verr := requireValidationError(t, err)

	required := 0
	for _, spec := range SubmissionSchema.Fields {
		if spec.Required {
			required++
		}
	}
	assert.Len(t, verr.Fields, required)
	for _, f := range verr.Fields {
		assert.Equal(t, KindFieldRequired, f.Kind)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	v := newValidator(t)

	first, err := v.Validate(PredictionSchema, validPrediction())
	require.NoError(t, err)
	second, err := v.Validate(PredictionSchema, validPrediction())
	require.NoError(t, err)

	assert.Equal(t, first.Values, second.Values)
	assert.Equal(t, first.Record, second.Record)
}

func TestError_Message(t *testing.T) {
	err := &Error{
		Schema: "prediction",
		Fields: []FieldError{{Field: "ZipCode", Kind: KindFieldRequired, Message: "Field required"}},
	}

	assert.Equal(t, "prediction record failed validation: ZipCode: Field required", err.Error())
}
