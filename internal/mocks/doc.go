// Package mocks provides shared test doubles for the store and service
// interfaces.
//
// Two flavours are offered. Function-field mocks (MockUserStore,
// MockJWTService, MockPasswordVerifier) and the in-memory
// MockMeasurementStore behave like simple working implementations and let a
// test override single methods. Testify mocks (TestifyMockUserStore,
// MockMeasurementService, MockUserService) are for tests that assert exact
// calls.
//
//	jwtSvc := &mocks.MockJWTService{
//	    GenerateTokenFn: func(ctx context.Context, userID uuid.UUID) (string, error) {
//	        return "mocked-token", nil
//	    },
//	}
package mocks
