package mocks

// MockPasswordHasher implements auth.PasswordHasher for testing
type MockPasswordHasher struct {
	// ShouldSucceed determines whether verification should succeed
	ShouldSucceed bool

	// HashFn allows for custom hashing logic in tests
	HashFn func(password string) (string, error)

	// HashErr is returned by the default Hash implementation when set
	HashErr error

	// VerifyCalledWith stores the arguments passed to Verify for verification
	VerifyCalledWith struct {
		Password    string
		EncodedHash string
	}

	// VerifyCallCount tracks how many times Verify was called
	VerifyCallCount int
}

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return "hashed:" + password, nil
}

// Verify implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Verify(password, encodedHash string) bool {
	m.VerifyCalledWith.Password = password
	m.VerifyCalledWith.EncodedHash = encodedHash
	m.VerifyCallCount++

	return m.ShouldSucceed
}
