package model_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"destination-travel-api/model"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCreateDestinationRequest(t *testing.T) {
	Convey("Given a create request body", t, func() {
		Convey("When every field is present", func() {
			var req model.CreateDestinationRequest
			err := json.Unmarshal([]byte(`{"destination":"Paris","country":"France","rating":4.8}`), &req)
			So(err, ShouldBeNil)

			Convey("Then it validates and converts to an entity without id", func() {
				So(req.Validate(), ShouldBeNil)
				d := req.ToDestination()
				So(d.DestinationID, ShouldEqual, 0)
				So(d.Destination, ShouldEqual, "Paris")
				So(d.Country, ShouldEqual, "France")
				So(d.Rating, ShouldEqual, 4.8)
			})
		})

		Convey("When the rating is zero it is still present", func() {
			var req model.CreateDestinationRequest
			So(json.Unmarshal([]byte(`{"destination":"Oslo","country":"Norway","rating":0}`), &req), ShouldBeNil)
			So(req.Validate(), ShouldBeNil)
		})

		Convey("When required fields are missing", func() {
			var req model.CreateDestinationRequest
			So(json.Unmarshal([]byte(`{"destination":"Paris"}`), &req), ShouldBeNil)

			err := req.Validate()
			var validationErr *model.ValidationError
			So(errors.As(err, &validationErr), ShouldBeTrue)
			So(validationErr.Fields, ShouldContainKey, "country")
			So(validationErr.Fields, ShouldContainKey, "rating")
			So(validationErr.Fields, ShouldNotContainKey, "destination")
			So(validationErr.Fields["country"], ShouldEqual, "is required")
			So(err.Error(), ShouldEqual, "invalid request body: country is required, rating is required")
		})

		Convey("When a text field exceeds 100 characters", func() {
			long := strings.Repeat("a", 101)
			req := model.CreateDestinationRequest{Destination: &long, Country: &long, Rating: new(float64)}

			err := req.Validate()
			var validationErr *model.ValidationError
			So(errors.As(err, &validationErr), ShouldBeTrue)
			So(validationErr.Fields["destination"], ShouldEqual, "must be at most 100 characters")
		})

		Convey("When a field has the wrong JSON type", func() {
			var req model.CreateDestinationRequest
			err := json.Unmarshal([]byte(`{"destination":1,"country":"France","rating":4.8}`), &req)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestUpdateDestinationRequest(t *testing.T) {
	Convey("Given an update request body", t, func() {
		Convey("When only the rating is present", func() {
			var req model.UpdateDestinationRequest
			So(json.Unmarshal([]byte(`{"rating":5.0}`), &req), ShouldBeNil)

			Convey("Then only the rating column is overwritten", func() {
				So(req.Validate(), ShouldBeNil)
				So(req.Fields(), ShouldResemble, map[string]interface{}{"rating": 5.0})
				So(req.Destination.Set, ShouldBeFalse)
				So(req.Country.Set, ShouldBeFalse)
			})
		})

		Convey("When the body is empty", func() {
			var req model.UpdateDestinationRequest
			So(json.Unmarshal([]byte(`{}`), &req), ShouldBeNil)
			So(req.Validate(), ShouldBeNil)
			So(req.Fields(), ShouldBeEmpty)
		})

		Convey("When a present string is empty it is still set", func() {
			var req model.UpdateDestinationRequest
			So(json.Unmarshal([]byte(`{"country":""}`), &req), ShouldBeNil)
			So(req.Fields(), ShouldResemble, map[string]interface{}{"country": ""})
		})

		Convey("When a field is null", func() {
			var req model.UpdateDestinationRequest
			err := json.Unmarshal([]byte(`{"country":null}`), &req)
			So(errors.Is(err, model.ErrNullField), ShouldBeTrue)
		})

		Convey("When a field has the wrong JSON type", func() {
			var req model.UpdateDestinationRequest
			So(json.Unmarshal([]byte(`{"rating":"high"}`), &req), ShouldNotBeNil)
		})

		Convey("When a text field exceeds 100 characters", func() {
			req := model.UpdateDestinationRequest{Country: model.Optional[string]{Value: strings.Repeat("é", 101), Set: true}}

			err := req.Validate()
			var validationErr *model.ValidationError
			So(errors.As(err, &validationErr), ShouldBeTrue)
			So(validationErr.Fields, ShouldResemble, map[string]string{"country": "must be at most 100 characters"})
		})

		Convey("When a text field has exactly 100 multi-byte characters", func() {
			req := model.UpdateDestinationRequest{Country: model.Optional[string]{Value: strings.Repeat("é", 100), Set: true}}
			So(req.Validate(), ShouldBeNil)
		})
	})
}
