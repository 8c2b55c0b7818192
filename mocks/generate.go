package mocks

//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/trendlab/trendfollow/internal/market DataSource
//go:generate mockgen -destination=./mock_gateway.go -package=mocks github.com/trendlab/trendfollow/internal/broker Gateway
//go:generate mockgen -destination=./mock_statestore.go -package=mocks github.com/trendlab/trendfollow/internal/statestore Store
