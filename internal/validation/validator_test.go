package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string   `json:"name" validate:"required,max=5"`
	Lat      *float64 `json:"lat" validate:"omitempty,min=-90,max=90"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Username string   `json:"username" validate:"omitempty,notemail"`
}

var sampleMessages = Messages{
	"name":  {"required": "Name is required", "max": "Name is too long"},
	"lat":   {"": "Latitude must be within -90 and 90"},
	"price": {"": "Price per day must be a positive number"},
}

func ptr(f float64) *float64 { return &f }

func TestGet_Singleton(t *testing.T) {
	assert.Same(t, Get(), Get())
}

func TestCheck_Valid(t *testing.T) {
	err := Check(&sample{Name: "ok", Lat: ptr(45), Price: ptr(0)}, sampleMessages)
	assert.NoError(t, err)
}

func TestCheck_CollectsEveryField(t *testing.T) {
	err := Check(&sample{Name: "too long", Lat: ptr(91), Price: ptr(-1), Username: "a@b.com"}, sampleMessages)
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"name":     "Name is too long",
		"lat":      "Latitude must be within -90 and 90",
		"price":    "Price per day must be a positive number",
		"username": "username is invalid",
	}, verr.Fields)
}

func TestCheck_RequiredPointer(t *testing.T) {
	err := Check(&sample{Name: "ok"}, sampleMessages)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Price per day must be a positive number", verr.Fields["price"])
	assert.NotContains(t, verr.Fields, "lat")
}

func TestCheck_DefaultMessages(t *testing.T) {
	err := Check(&sample{Price: ptr(1)}, nil)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name is required", verr.Fields["name"])
}

func TestError_OrNil(t *testing.T) {
	e := New()
	assert.NoError(t, e.OrNil())

	e.Add("email", "first")
	e.Add("email", "second")
	assert.Error(t, e.OrNil())
	assert.Equal(t, "first", e.Fields["email"])
}

func TestCheck_MaxBytes(t *testing.T) {
	type secret struct {
		Password string `json:"password" validate:"maxbytes=4"`
	}

	assert.NoError(t, Check(&secret{Password: "abcd"}, nil))

	err := Check(&secret{Password: "äää"}, Messages{"password": {"maxbytes": "too long"}})
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "too long", verr.Fields["password"])
}
