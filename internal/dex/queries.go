package dex

const poolFields = `
      poolId
      feeTier
      feeRate
      currentTick
      sqrtPrice
      liquidity
      token1
      token2
      token1Info { symbol name decimals }
      token2Info { symbol name decimals }`

const allPoolsQuery = `query queryAllPools {
  api {
    getPoolStat {
      pool {` + poolFields + `
      }
    }
  }
}`

const poolByIDQuery = `query queryPoolById($poolId: String) {
  api {
    getPoolStat(poolId: $poolId) {
      pool {` + poolFields + `
      }
    }
  }
}`
