package common

// EnvPrefix is the prefix of environment variables read by the config layer,
// e.g. HYDRO_DB_PATH.
const EnvPrefix = "HYDRO"
