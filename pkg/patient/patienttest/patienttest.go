// Package patienttest provides form submissions for tests.
package patienttest

import "github.com/cardiocare/platform/pkg/patient"

// Input returns a complete, valid submission mixing typed text and numeric
// widget values the way the entry form produces them.
func Input(name string) patient.PatientInput {
	return patient.PatientInput{
		Name:               name,
		Age:                patient.TextValue("45"),
		Sex:                patient.NumberValue(0),
		ChestPainType:      patient.TextValue("1"),
		RestingSystolicBP:  patient.NumberValue(120),
		RestingDiastolicBP: patient.NumberValue(80),
		FastingBloodSugar:  patient.TextValue("0"),
		Cholesterol:        patient.NumberValue(200),
		RestingECG:         patient.TextValue("0"),
		MaxHeartRate:       patient.NumberValue(150),
		ExerciseAngina:     patient.TextValue("0"),
		Oldpeak:            patient.NumberValue(1.0),
		STSlope:            patient.TextValue("1"),
		Smoking:            patient.TextValue("0"),
		BMICategory:        patient.TextValue("1"),
		FamilyHistory:      patient.TextValue("0"),
		ShortnessOfBreath:  patient.TextValue("0"),
		Palpitations:       patient.TextValue("0"),
		BlockedVesselCount: patient.TextValue("0"),
		Thalassemia:        patient.TextValue("0"),
		StrokeHistory:      patient.TextValue("0"),
	}
}

// Vector is the feature vector Input vectorizes to.
func Vector() []float64 {
	return []float64{45, 0, 1, 120, 80, 0, 200, 0, 150, 0, 1.0, 1, 0, 1, 0, 0, 0, 0, 0, 0}
}
