package signature

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/inspector"
	"github.com/glorpus-work/droidrepo/pkg/logger"
)

// Verification is the outcome of comparing a candidate against the running
// application.
type Verification struct {
	Match        bool
	CandidateHex string
	SelfHex      string
}

// Verifier checks candidates against the signature of SelfPackage.
type Verifier struct {
	inspector   inspector.Inspector
	selfPackage string
}

// NewVerifier returns a verifier that trusts whatever signs selfPackage.
func NewVerifier(insp inspector.Inspector, selfPackage string) *Verifier {
	return &Verifier{inspector: insp, selfPackage: selfPackage}
}

// HasKnownSignature reports whether the package at path is signed exactly
// like the running application. A missing file is false with no error.
func (v *Verifier) HasKnownSignature(path string) (bool, error) {
	res, err := v.Verify(path)
	if err != nil {
		return false, err
	}
	return res.Match, nil
}

// Verify compares the candidate's certificates with the running
// application's. Errors from opening or parsing the candidate are returned
// as is; a failure to read the own signature is errors.ErrConfiguration.
func (v *Verifier) Verify(path string) (Verification, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			logger.Debug("Candidate package is missing", logrus.Fields{"path": path})
			return Verification{}, nil
		}
		return Verification{}, errors.Wrapf(errors.ErrPackageNotFound, "%s: %v", path, err)
	}

	pkg, err := v.inspector.ParseArchive(path, inspector.FlagSignatures)
	if err != nil {
		return Verification{}, err
	}
	candidate := Set(pkg.Signatures)

	self, err := v.selfSignature()
	if err != nil {
		return Verification{}, err
	}

	res := Verification{
		Match:        candidate.Equal(self),
		CandidateHex: candidate.Hex(),
		SelfHex:      self.Hex(),
	}
	if !res.Match {
		logger.Debug("Signature mismatch", logrus.Fields{
			"package":   pkg.PackageName,
			"candidate": res.CandidateHex,
			"self":      res.SelfHex,
		})
	}
	return res, nil
}

func (v *Verifier) selfSignature() (Set, error) {
	app, err := v.inspector.GetApplicationInfo(v.selfPackage, inspector.FlagSignatures)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrConfiguration, "reading own signature of %s: %v", v.selfPackage, err)
	}
	self := Set(app.Signatures)
	if self.Empty() {
		return nil, errors.Wrapf(errors.ErrConfiguration, "%s carries no signature", v.selfPackage)
	}
	return self, nil
}
