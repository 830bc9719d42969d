package prowlarr

import "github.com/declarr/declarr/faults"

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func notFoundError(message string, cause error) error {
	return faults.NewTypedError(faults.NotFoundError, message, cause)
}

func authError(message string, cause error) error {
	return faults.NewTypedError(faults.AuthError, message, cause)
}

func connectivityError(message string, cause error) error {
	return faults.NewTypedError(faults.ConnectivityError, message, cause)
}

func remoteOperationError(message string, cause error) error {
	return faults.NewTypedError(faults.RemoteOperationError, message, cause)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}
