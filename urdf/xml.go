// Package urdf ingests the URDF XML subset named in the engine's external
// interface and builds a model.Model. The XML struct-tag decoding style
// (encoding/xml with *Optional pointer fields and attr tags) follows
// viamrobotics-rdk's referenceframe/urdf package; validation failures are
// returned as errs types, with lower-level causes wrapped via
// github.com/pkg/errors.
package urdf

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type xmlRobot struct {
	XMLName xml.Name   `xml:"robot"`
	Name    string     `xml:"name,attr"`
	Links   []xmlLink  `xml:"link"`
	Joints  []xmlJoint `xml:"joint"`
}

type xmlLink struct {
	Name      string        `xml:"name,attr"`
	Inertial  *xmlInertial  `xml:"inertial"`
}

type xmlInertial struct {
	Origin *xmlPose    `xml:"origin"`
	Mass   *xmlMass    `xml:"mass"`
	Inertia *xmlInertiaTensor `xml:"inertia"`
}

type xmlMass struct {
	Value float64 `xml:"value,attr"`
}

type xmlInertiaTensor struct {
	Ixx float64 `xml:"ixx,attr"`
	Ixy float64 `xml:"ixy,attr"`
	Ixz float64 `xml:"ixz,attr"`
	Iyy float64 `xml:"iyy,attr"`
	Iyz float64 `xml:"iyz,attr"`
	Izz float64 `xml:"izz,attr"`
}

type xmlPose struct {
	XYZ string `xml:"xyz,attr"`
	RPY string `xml:"rpy,attr"`
}

type xmlJoint struct {
	Name   string     `xml:"name,attr"`
	Type   string     `xml:"type,attr"`
	Parent xmlFrame   `xml:"parent"`
	Child  xmlFrame   `xml:"child"`
	Origin *xmlPose   `xml:"origin"`
	Axis   *xmlAxis   `xml:"axis"`
	Limit  *xmlLimit  `xml:"limit"`
}

type xmlFrame struct {
	Link string `xml:"link,attr"`
}

type xmlAxis struct {
	XYZ string `xml:"xyz,attr"`
}

type xmlLimit struct {
	Lower *float64 `xml:"lower,attr"`
	Upper *float64 `xml:"upper,attr"`
}

// parseXYZ parses a URDF "x y z" space-delimited attribute. A missing or
// empty string parses as the zero vector, matching the URDF spec's default.
func parseXYZ(s string) ([3]float64, error) {
	var v [3]float64
	s = strings.TrimSpace(s)
	if s == "" {
		return v, nil
	}
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return v, errors.Errorf("expected 3 space-delimited components, got %d in %q", len(fields), s)
	}
	for i, f := range fields {
		val, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return v, errors.Wrapf(err, "parsing component %d of %q", i, s)
		}
		v[i] = val
	}
	return v, nil
}
