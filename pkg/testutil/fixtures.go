package testutil

import "github.com/google/uuid"

var (
	// TestMissingApplicationID never names a stored application.
	TestMissingApplicationID = uuid.MustParse("00000000-0000-0000-0000-0000000000ff")
	// TestStrangerUserID owns no applications.
	TestStrangerUserID = uuid.MustParse("00000000-0000-0000-0000-0000000000ee")
)
