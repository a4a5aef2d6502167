package constants

// ListPageSize is the MaxKeys sent with every ListObjectsV2 call, the most
// S3 will return in one page.
const ListPageSize = 1000

// LambdaFunctionNameEnv is set by the Lambda runtime; its presence switches
// the binary from CLI mode to the Lambda runtime loop.
const LambdaFunctionNameEnv = "AWS_LAMBDA_FUNCTION_NAME"
