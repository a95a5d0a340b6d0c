package constants

const KBolzmann float64 = 1.380649e-23                  // [J K^-1]
const ElectronCharge = 1.602176634e-19                   // C
const ElectornMass float64 = 9.1093837139e-31            // [kg]
const ProtonMass float64 = 1.67262192595e-27             // [kg]
const NeutronMass float64 = 1.67492750056e-27            // [kg]
const FreeSpacePermittivityE0 float64 = 8.8541878188e-12 // [m^-3 kg^{-1} s^4 A^2]
const SpeedOfLight float64 = 299792458.                  // [m s^-1]
const CSquared = SpeedOfLight * SpeedOfLight
const HPlanck float64 = 6.62607015e-34        // [J s]
const SigmaThomson float64 = 6.6524587321e-29 // [m^2]

const ElectronVolt = ElectronCharge // [J]
const GeV = 1e9 * ElectronVolt
const Parsec float64 = 3.0856775814913673e16 // [m]
const Mpc = 1e6 * Parsec
const Gauss float64 = 1e-4 // [T]
const NanoGauss = 1e-9 * Gauss
const CCm float64 = 1e-6 // [m^3]

// rest energy of the electron [J]
const ElectronRestEnergy = ElectornMass * CSquared

// (m_e c^2)^2 [J^2]
const ElectronRestEnergy2 = ElectronRestEnergy * ElectronRestEnergy

const Quantile95 = 1.96
